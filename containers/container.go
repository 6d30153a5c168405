// Copyright 2024 The CEL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package containers resolves identifiers against a dotted namespace, the
// CEL analogue of a package or using-directive, following the
// longest-qualified-prefix-wins rule the checker's environment relies on.
package containers

import (
	"fmt"
	"strings"
)

// Default is the empty container: names resolve only against themselves.
var Default *Container

var noAliases = map[string]string{}

// Container holds a dotted namespace name plus an optional set of simple
// name aliases for otherwise deeply-qualified names.
type Container struct {
	name    string
	aliases map[string]string
}

// Option configures a Container; options compose left to right via New or
// Extend.
type Option func(*Container) (*Container, error)

// New builds a Container from a sequence of Options.
func New(opts ...Option) (*Container, error) {
	var c *Container
	var err error
	for _, opt := range opts {
		if c, err = opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Extend returns a new Container that starts from c's settings and applies
// additional options, leaving c itself unmodified.
func (c *Container) Extend(opts ...Option) (*Container, error) {
	if c == nil {
		return New(opts...)
	}
	ext := &Container{name: c.Name()}
	if len(c.aliasSet()) > 0 {
		ext.aliases = make(map[string]string, len(c.aliasSet()))
		for k, v := range c.aliasSet() {
			ext.aliases[k] = v
		}
	}
	var err error
	for _, opt := range opts {
		if ext, err = opt(ext); err != nil {
			return nil, err
		}
	}
	return ext, nil
}

// Name returns the fully-qualified container name, or "" for the default
// (root) container.
func (c *Container) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

func (c *Container) aliasSet() map[string]string {
	if c == nil || c.aliases == nil {
		return noAliases
	}
	return c.aliases
}

// ResolveCandidateNames returns the candidate fully-qualified spellings of
// name, most-qualified first, per the C4 hierarchical lookup rule: given
// container a.b.c and name X, the candidates are a.b.c.X, a.b.X, a.X, X.
//
// A name with a leading '.' is absolute and returns only itself (after
// alias resolution) — it is never subject to container prefixing.
func (c *Container) ResolveCandidateNames(name string) []string {
	if strings.HasPrefix(name, ".") {
		qn := name[1:]
		return c.withAliases([]string{qn}, qn)
	}
	if c.Name() == "" {
		return c.withAliases([]string{name}, name)
	}
	next := c.Name()
	candidates := []string{next + "." + name}
	for i := strings.LastIndex(next, "."); i >= 0; i = strings.LastIndex(next, ".") {
		next = next[:i]
		candidates = append(candidates, next+"."+name)
	}
	candidates = append(candidates, name)
	return c.withAliases(candidates, name)
}

func (c *Container) withAliases(candidates []string, name string) []string {
	if len(c.aliasSet()) == 0 {
		return candidates
	}
	if alias, found := c.aliasSet()[name]; found {
		return append(candidates, alias)
	}
	return candidates
}

// Name sets the fully-qualified container name.
func Name(name string) Option {
	return func(c *Container) (*Container, error) {
		if c.Name() == name {
			return c, nil
		}
		if c == nil {
			return &Container{name: name}, nil
		}
		c.name = name
		return c, nil
	}
}

// Alias associates a simple name with a fully-qualified name so programs
// need not spell out deeply nested namespaces for frequently-used types.
func Alias(qualifiedName, alias string) Option {
	return func(c *Container) (*Container, error) {
		if alias == "" || strings.Contains(alias, ".") {
			return nil, fmt.Errorf("alias must be non-empty and simple: %q", alias)
		}
		idx := strings.LastIndex(qualifiedName, ".")
		if idx <= 0 || idx == len(qualifiedName)-1 {
			return nil, fmt.Errorf("alias target must be qualified: %q", qualifiedName)
		}
		if c == nil {
			c = &Container{}
		}
		if existing, found := c.aliasSet()[alias]; found {
			return nil, fmt.Errorf("alias %q collides with existing alias for %q", alias, existing)
		}
		if strings.HasPrefix(c.Name(), alias+".") || c.Name() == alias {
			return nil, fmt.Errorf("alias %q collides with container name %q", alias, c.Name())
		}
		if c.aliases == nil {
			c.aliases = make(map[string]string)
		}
		c.aliases[alias] = qualifiedName
		return c, nil
	}
}

// Aliases derives a simple-name alias from the last path segment of each
// qualified name given, e.g. Aliases("pkg.sub.Foo") aliases "Foo".
func Aliases(qualifiedNames ...string) Option {
	return func(c *Container) (*Container, error) {
		var err error
		for _, qn := range qualifiedNames {
			idx := strings.LastIndex(qn, ".")
			if idx <= 0 || idx >= len(qn)-1 {
				return nil, fmt.Errorf("invalid qualified name: %q", qn)
			}
			if c, err = Alias(qn, qn[idx+1:])(c); err != nil {
				return nil, err
			}
		}
		return c, nil
	}
}
