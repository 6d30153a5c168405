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

// Package stdlib declares the built-in operators, conversion functions and
// accessor functions every environment starts from unless built with
// NoStandardLibrary.
package stdlib

import (
	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/operators"
	"github.com/exprlang/celcheck/overloads"
	"github.com/exprlang/celcheck/types"
)

// Declarations returns the full standard-library declaration set: the type
// name identifiers (`int`, `list`, `map`, ...) plus every built-in
// operator, conversion, and collection/time accessor function.
func Declarations() ([]*decls.VariableDecl, []*decls.FunctionDecl) {
	paramA := types.NewTypeParam("A")
	typeParamAList := []string{"A"}
	listOfA := types.NewList(paramA)
	paramB := types.NewTypeParam("B")
	typeParamABList := []string{"A", "B"}
	mapOfAB := types.NewMap(paramA, paramB)

	var vars []*decls.VariableDecl
	for _, t := range []*types.Type{types.Int, types.Uint, types.Bool, types.Double, types.Bytes, types.String} {
		vars = append(vars, decls.NewVariable(types.FormatType(t), types.NewTypeOf(t)))
	}
	vars = append(vars,
		decls.NewVariable("list", types.NewTypeOf(listOfA)),
		decls.NewVariable("map", types.NewTypeOf(mapOfAB)))

	fns := []*decls.FunctionDecl{
		decls.NewFunction(operators.Conditional,
			decls.NewParameterizedOverload(overloads.Conditional,
				[]*types.Type{types.Bool, paramA, paramA}, paramA, typeParamAList)),

		decls.NewFunction(operators.LogicalAnd,
			decls.NewOverload(overloads.LogicalAnd, []*types.Type{types.Bool, types.Bool}, types.Bool)),

		decls.NewFunction(operators.LogicalOr,
			decls.NewOverload(overloads.LogicalOr, []*types.Type{types.Bool, types.Bool}, types.Bool)),

		decls.NewFunction(operators.LogicalNot,
			decls.NewOverload(overloads.LogicalNot, []*types.Type{types.Bool}, types.Bool)),

		decls.NewFunction("matches",
			decls.NewInstanceOverload(overloads.MatchString,
				[]*types.Type{types.String, types.String}, types.Bool)),

		// Relations

		decls.NewFunction(operators.Less,
			decls.NewOverload(overloads.LessBool, []*types.Type{types.Bool, types.Bool}, types.Bool),
			decls.NewOverload(overloads.LessInt64, []*types.Type{types.Int, types.Int}, types.Bool),
			decls.NewOverload(overloads.LessUint64, []*types.Type{types.Uint, types.Uint}, types.Bool),
			decls.NewOverload(overloads.LessDouble, []*types.Type{types.Double, types.Double}, types.Bool),
			decls.NewOverload(overloads.LessString, []*types.Type{types.String, types.String}, types.Bool),
			decls.NewOverload(overloads.LessBytes, []*types.Type{types.Bytes, types.Bytes}, types.Bool),
			decls.NewOverload(overloads.LessTimestamp, []*types.Type{types.Timestamp, types.Timestamp}, types.Bool),
			decls.NewOverload(overloads.LessDuration, []*types.Type{types.Duration, types.Duration}, types.Bool)),

		decls.NewFunction(operators.LessEquals,
			decls.NewOverload(overloads.LessEqualsBool, []*types.Type{types.Bool, types.Bool}, types.Bool),
			decls.NewOverload(overloads.LessEqualsInt64, []*types.Type{types.Int, types.Int}, types.Bool),
			decls.NewOverload(overloads.LessEqualsUint64, []*types.Type{types.Uint, types.Uint}, types.Bool),
			decls.NewOverload(overloads.LessEqualsDouble, []*types.Type{types.Double, types.Double}, types.Bool),
			decls.NewOverload(overloads.LessEqualsString, []*types.Type{types.String, types.String}, types.Bool),
			decls.NewOverload(overloads.LessEqualsBytes, []*types.Type{types.Bytes, types.Bytes}, types.Bool),
			decls.NewOverload(overloads.LessEqualsTimestamp, []*types.Type{types.Timestamp, types.Timestamp}, types.Bool),
			decls.NewOverload(overloads.LessEqualsDuration, []*types.Type{types.Duration, types.Duration}, types.Bool)),

		decls.NewFunction(operators.Greater,
			decls.NewOverload(overloads.GreaterBool, []*types.Type{types.Bool, types.Bool}, types.Bool),
			decls.NewOverload(overloads.GreaterInt64, []*types.Type{types.Int, types.Int}, types.Bool),
			decls.NewOverload(overloads.GreaterUint64, []*types.Type{types.Uint, types.Uint}, types.Bool),
			decls.NewOverload(overloads.GreaterDouble, []*types.Type{types.Double, types.Double}, types.Bool),
			decls.NewOverload(overloads.GreaterString, []*types.Type{types.String, types.String}, types.Bool),
			decls.NewOverload(overloads.GreaterBytes, []*types.Type{types.Bytes, types.Bytes}, types.Bool),
			decls.NewOverload(overloads.GreaterTimestamp, []*types.Type{types.Timestamp, types.Timestamp}, types.Bool),
			decls.NewOverload(overloads.GreaterDuration, []*types.Type{types.Duration, types.Duration}, types.Bool)),

		decls.NewFunction(operators.GreaterEquals,
			decls.NewOverload(overloads.GreaterEqualsBool, []*types.Type{types.Bool, types.Bool}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsInt64, []*types.Type{types.Int, types.Int}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsUint64, []*types.Type{types.Uint, types.Uint}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsDouble, []*types.Type{types.Double, types.Double}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsString, []*types.Type{types.String, types.String}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsBytes, []*types.Type{types.Bytes, types.Bytes}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsTimestamp, []*types.Type{types.Timestamp, types.Timestamp}, types.Bool),
			decls.NewOverload(overloads.GreaterEqualsDuration, []*types.Type{types.Duration, types.Duration}, types.Bool)),

		decls.NewFunction(operators.Equals,
			decls.NewParameterizedOverload(overloads.Equals, []*types.Type{paramA, paramA}, types.Bool, typeParamAList)),

		decls.NewFunction(operators.NotEquals,
			decls.NewParameterizedOverload(overloads.NotEquals, []*types.Type{paramA, paramA}, types.Bool, typeParamAList)),

		// Algebra

		decls.NewFunction(operators.Subtract,
			decls.NewOverload(overloads.SubtractInt64, []*types.Type{types.Int, types.Int}, types.Int),
			decls.NewOverload(overloads.SubtractUint64, []*types.Type{types.Uint, types.Uint}, types.Uint),
			decls.NewOverload(overloads.SubtractDouble, []*types.Type{types.Double, types.Double}, types.Double),
			decls.NewOverload(overloads.SubtractTimestampTimestamp, []*types.Type{types.Timestamp, types.Timestamp}, types.Duration),
			decls.NewOverload(overloads.SubtractTimestampDuration, []*types.Type{types.Timestamp, types.Duration}, types.Timestamp),
			decls.NewOverload(overloads.SubtractDurationDuration, []*types.Type{types.Duration, types.Duration}, types.Duration)),

		decls.NewFunction(operators.Multiply,
			decls.NewOverload(overloads.MultiplyInt64, []*types.Type{types.Int, types.Int}, types.Int),
			decls.NewOverload(overloads.MultiplyUint64, []*types.Type{types.Uint, types.Uint}, types.Uint),
			decls.NewOverload(overloads.MultiplyDouble, []*types.Type{types.Double, types.Double}, types.Double)),

		decls.NewFunction(operators.Divide,
			decls.NewOverload(overloads.DivideInt64, []*types.Type{types.Int, types.Int}, types.Int),
			decls.NewOverload(overloads.DivideUint64, []*types.Type{types.Uint, types.Uint}, types.Uint),
			decls.NewOverload(overloads.DivideDouble, []*types.Type{types.Double, types.Double}, types.Double)),

		decls.NewFunction(operators.Modulo,
			decls.NewOverload(overloads.ModuloInt64, []*types.Type{types.Int, types.Int}, types.Int),
			decls.NewOverload(overloads.ModuloUint64, []*types.Type{types.Uint, types.Uint}, types.Uint)),

		decls.NewFunction(operators.Add,
			decls.NewOverload(overloads.AddInt64, []*types.Type{types.Int, types.Int}, types.Int),
			decls.NewOverload(overloads.AddUint64, []*types.Type{types.Uint, types.Uint}, types.Uint),
			decls.NewOverload(overloads.AddDouble, []*types.Type{types.Double, types.Double}, types.Double),
			decls.NewOverload(overloads.AddString, []*types.Type{types.String, types.String}, types.String),
			decls.NewOverload(overloads.AddBytes, []*types.Type{types.Bytes, types.Bytes}, types.Bytes),
			decls.NewParameterizedOverload(overloads.AddList, []*types.Type{listOfA, listOfA}, listOfA, typeParamAList),
			decls.NewOverload(overloads.AddTimestampDuration, []*types.Type{types.Timestamp, types.Duration}, types.Timestamp),
			decls.NewOverload(overloads.AddDurationTimestamp, []*types.Type{types.Duration, types.Timestamp}, types.Timestamp),
			decls.NewOverload(overloads.AddDurationDuration, []*types.Type{types.Duration, types.Duration}, types.Duration)),

		decls.NewFunction(operators.Negate,
			decls.NewOverload(overloads.NegateInt64, []*types.Type{types.Int}, types.Int),
			decls.NewOverload(overloads.NegateDouble, []*types.Type{types.Double}, types.Double)),

		// Index

		decls.NewFunction(operators.Index,
			decls.NewParameterizedOverload(overloads.IndexList, []*types.Type{listOfA, types.Int}, paramA, typeParamAList),
			decls.NewParameterizedOverload(overloads.IndexMap, []*types.Type{mapOfAB, paramA}, paramB, typeParamABList)),

		// Collections

		decls.NewFunction(overloads.Size,
			decls.NewInstanceOverload(overloads.SizeStringInst, []*types.Type{types.String}, types.Int),
			decls.NewInstanceOverload(overloads.SizeBytesInst, []*types.Type{types.Bytes}, types.Int),
			decls.NewParameterizedInstanceOverload(overloads.SizeListInst, []*types.Type{listOfA}, types.Int, typeParamAList),
			decls.NewParameterizedInstanceOverload(overloads.SizeMapInst, []*types.Type{mapOfAB}, types.Int, typeParamABList),
			decls.NewOverload(overloads.SizeString, []*types.Type{types.String}, types.Int),
			decls.NewOverload(overloads.SizeBytes, []*types.Type{types.Bytes}, types.Int),
			decls.NewParameterizedOverload(overloads.SizeList, []*types.Type{listOfA}, types.Int, typeParamAList),
			decls.NewParameterizedOverload(overloads.SizeMap, []*types.Type{mapOfAB}, types.Int, typeParamABList)),

		decls.NewFunction(operators.In,
			decls.NewParameterizedOverload(overloads.InList, []*types.Type{paramA, listOfA}, types.Bool, typeParamAList),
			decls.NewParameterizedOverload(overloads.InMap, []*types.Type{paramA, mapOfAB}, types.Bool, typeParamABList)),

		// Deprecated `_in_` legacy spelling: the same signatures as `_in_`,
		// under overload ids of its own.
		decls.NewFunction(overloads.DeprecatedIn,
			decls.NewParameterizedOverload(overloads.DeprecatedIn+"_list", []*types.Type{paramA, listOfA}, types.Bool, typeParamAList),
			decls.NewParameterizedOverload(overloads.DeprecatedIn+"_map", []*types.Type{paramA, mapOfAB}, types.Bool, typeParamABList)),

		// Conversions to type

		decls.NewFunction(overloads.TypeConvertType,
			decls.NewParameterizedOverload(overloads.TypeConvertType, []*types.Type{paramA}, types.NewTypeOf(paramA), typeParamAList)),

		// Conversions to int

		decls.NewFunction(overloads.TypeConvertInt,
			decls.NewOverload(overloads.IntToInt, []*types.Type{types.Int}, types.Int),
			decls.NewOverload(overloads.UintToInt, []*types.Type{types.Uint}, types.Int),
			decls.NewOverload(overloads.DoubleToInt, []*types.Type{types.Double}, types.Int),
			decls.NewOverload(overloads.StringToInt, []*types.Type{types.String}, types.Int),
			decls.NewOverload(overloads.TimestampToInt, []*types.Type{types.Timestamp}, types.Int),
			decls.NewOverload(overloads.DurationToInt, []*types.Type{types.Duration}, types.Int)),

		// Conversions to uint

		decls.NewFunction(overloads.TypeConvertUint,
			decls.NewOverload(overloads.UintToUint, []*types.Type{types.Uint}, types.Uint),
			decls.NewOverload(overloads.IntToUint, []*types.Type{types.Int}, types.Uint),
			decls.NewOverload(overloads.DoubleToUint, []*types.Type{types.Double}, types.Uint),
			decls.NewOverload(overloads.StringToUint, []*types.Type{types.String}, types.Uint)),

		// Conversions to double

		decls.NewFunction(overloads.TypeConvertDouble,
			decls.NewOverload(overloads.DoubleToDouble, []*types.Type{types.Double}, types.Double),
			decls.NewOverload(overloads.IntToDouble, []*types.Type{types.Int}, types.Double),
			decls.NewOverload(overloads.UintToDouble, []*types.Type{types.Uint}, types.Double),
			decls.NewOverload(overloads.StringToDouble, []*types.Type{types.String}, types.Double)),

		// Conversions to bool

		decls.NewFunction(overloads.TypeConvertBool,
			decls.NewOverload(overloads.BoolToBool, []*types.Type{types.Bool}, types.Bool),
			decls.NewOverload(overloads.StringToBool, []*types.Type{types.String}, types.Bool)),

		// Conversions to string

		decls.NewFunction(overloads.TypeConvertString,
			decls.NewOverload(overloads.StringToString, []*types.Type{types.String}, types.String),
			decls.NewOverload(overloads.BoolToString, []*types.Type{types.Bool}, types.String),
			decls.NewOverload(overloads.IntToString, []*types.Type{types.Int}, types.String),
			decls.NewOverload(overloads.UintToString, []*types.Type{types.Uint}, types.String),
			decls.NewOverload(overloads.DoubleToString, []*types.Type{types.Double}, types.String),
			decls.NewOverload(overloads.BytesToString, []*types.Type{types.Bytes}, types.String),
			decls.NewOverload(overloads.TimestampToString, []*types.Type{types.Timestamp}, types.String),
			decls.NewOverload(overloads.DurationToString, []*types.Type{types.Duration}, types.String)),

		// Conversions to bytes

		decls.NewFunction(overloads.TypeConvertBytes,
			decls.NewOverload(overloads.BytesToBytes, []*types.Type{types.Bytes}, types.Bytes),
			decls.NewOverload(overloads.StringToBytes, []*types.Type{types.String}, types.Bytes)),

		// Conversions to timestamp

		decls.NewFunction(overloads.TypeConvertTimestamp,
			decls.NewOverload(overloads.TimestampToTimestamp, []*types.Type{types.Timestamp}, types.Timestamp),
			decls.NewOverload(overloads.StringToTimestamp, []*types.Type{types.String}, types.Timestamp),
			decls.NewOverload(overloads.IntToTimestamp, []*types.Type{types.Int}, types.Timestamp)),

		// Conversions to duration

		decls.NewFunction(overloads.TypeConvertDuration,
			decls.NewOverload(overloads.DurationToDuration, []*types.Type{types.Duration}, types.Duration),
			decls.NewOverload(overloads.StringToDuration, []*types.Type{types.String}, types.Duration),
			decls.NewOverload(overloads.IntToDuration, []*types.Type{types.Int}, types.Duration)),

		// Conversions to dyn

		decls.NewFunction(overloads.TypeConvertDyn,
			decls.NewParameterizedOverload(overloads.ToDyn, []*types.Type{paramA}, types.Dyn, typeParamAList)),

		// Date/time accessors

		decls.NewFunction(overloads.TimeGetFullYear,
			decls.NewInstanceOverload(overloads.TimestampToYear, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToYearWithTz, []*types.Type{types.Timestamp, types.String}, types.Int)),

		decls.NewFunction(overloads.TimeGetMonth,
			decls.NewInstanceOverload(overloads.TimestampToMonth, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToMonthWithTz, []*types.Type{types.Timestamp, types.String}, types.Int)),

		decls.NewFunction(overloads.TimeGetDayOfYear,
			decls.NewInstanceOverload(overloads.TimestampToDayOfYear, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToDayOfYearWithTz, []*types.Type{types.Timestamp, types.String}, types.Int)),

		decls.NewFunction(overloads.TimeGetDayOfMonth,
			decls.NewInstanceOverload(overloads.TimestampToDayOfMonthZeroBased, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToDayOfMonthZeroBasedWithTz, []*types.Type{types.Timestamp, types.String}, types.Int)),

		decls.NewFunction("getDate",
			decls.NewInstanceOverload(overloads.TimestampToDayOfMonthOneBased, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToDayOfMonthOneBasedWithTz, []*types.Type{types.Timestamp, types.String}, types.Int)),

		decls.NewFunction(overloads.TimeGetDayOfWeek,
			decls.NewInstanceOverload(overloads.TimestampToDayOfWeek, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToDayOfWeekWithTz, []*types.Type{types.Timestamp, types.String}, types.Int)),

		decls.NewFunction(overloads.TimeGetHours,
			decls.NewInstanceOverload(overloads.TimestampToHours, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToHoursWithTz, []*types.Type{types.Timestamp, types.String}, types.Int),
			decls.NewInstanceOverload(overloads.DurationToHours, []*types.Type{types.Duration}, types.Int)),

		decls.NewFunction(overloads.TimeGetMinutes,
			decls.NewInstanceOverload(overloads.TimestampToMinutes, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToMinutesWithTz, []*types.Type{types.Timestamp, types.String}, types.Int),
			decls.NewInstanceOverload(overloads.DurationToMinutes, []*types.Type{types.Duration}, types.Int)),

		decls.NewFunction(overloads.TimeGetSeconds,
			decls.NewInstanceOverload(overloads.TimestampToSeconds, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToSecondsWithTz, []*types.Type{types.Timestamp, types.String}, types.Int),
			decls.NewInstanceOverload(overloads.DurationToSeconds, []*types.Type{types.Duration}, types.Int)),

		decls.NewFunction(overloads.TimeGetMilliseconds,
			decls.NewInstanceOverload(overloads.TimestampToMilliseconds, []*types.Type{types.Timestamp}, types.Int),
			decls.NewInstanceOverload(overloads.TimestampToMillisecondsWithTz, []*types.Type{types.Timestamp, types.String}, types.Int),
			decls.NewInstanceOverload(overloads.DurationToMilliseconds, []*types.Type{types.Duration}, types.Int)),
	}
	return vars, fns
}

// CrossTypeNumericOverloads returns the additional int/uint/double pairwise
// comparison overloads for <, <=, >, >=, installed only when an environment
// is built with celenv.CrossNumericComparisons(): by default CEL
// rejects comparisons between differing numeric types outright (§4.1),
// exposing cross-numeric overloads only behind this opt-in flag.
func CrossTypeNumericOverloads() []*decls.FunctionDecl {
	type pair struct {
		a, b *types.Type
	}
	pairs := []pair{
		{types.Int, types.Uint}, {types.Int, types.Double},
		{types.Uint, types.Int}, {types.Uint, types.Double},
		{types.Double, types.Int}, {types.Double, types.Uint},
	}
	ids := map[string][]string{
		operators.Less: {
			overloads.LessIntUint, overloads.LessIntDouble,
			overloads.LessUintInt, overloads.LessUintDouble,
			overloads.LessDoubleInt, overloads.LessDoubleUint,
		},
		operators.LessEquals: {
			overloads.LessEqualsIntUint, overloads.LessEqualsIntDouble,
			overloads.LessEqualsUintInt, overloads.LessEqualsUintDouble,
			overloads.LessEqualsDoubleInt, overloads.LessEqualsDoubleUint,
		},
		operators.Greater: {
			overloads.GreaterIntUint, overloads.GreaterIntDouble,
			overloads.GreaterUintInt, overloads.GreaterUintDouble,
			overloads.GreaterDoubleInt, overloads.GreaterDoubleUint,
		},
		operators.GreaterEquals: {
			overloads.GreaterEqualsIntUint, overloads.GreaterEqualsIntDouble,
			overloads.GreaterEqualsUintInt, overloads.GreaterEqualsUintDouble,
			overloads.GreaterEqualsDoubleInt, overloads.GreaterEqualsDoubleUint,
		},
	}
	var fns []*decls.FunctionDecl
	for _, op := range []string{operators.Less, operators.LessEquals, operators.Greater, operators.GreaterEquals} {
		var overloadsForOp []*decls.OverloadDecl
		for i, p := range pairs {
			overloadsForOp = append(overloadsForOp,
				decls.NewOverload(ids[op][i], []*types.Type{p.a, p.b}, types.Bool))
		}
		fns = append(fns, decls.NewFunction(op, overloadsForOp...))
	}
	return fns
}
