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

// Package overloads defines the string identifiers the standard library
// declarations attach to each concrete overload of a built-in function.
// These ids have no semantic meaning to the checker itself — it only ever
// needs *some* stable string per overload — but following the well-known
// public naming convention keeps diagnostics and conformance fixtures
// comparable to other CEL implementations.
package overloads

// Logical and conditional operators.
const (
	Conditional = "conditional"
	LogicalAnd  = "logical_and"
	LogicalOr   = "logical_or"
	LogicalNot  = "logical_not"
	NotStrictlyFalse = "not_strictly_false"
)

// Equality and ordering, one overload per operand type.
const (
	Equals    = "equals"
	NotEquals = "not_equals"

	LessBool      = "less_bool"
	LessInt64     = "less_int64"
	LessUint64    = "less_uint64"
	LessDouble    = "less_double"
	LessString    = "less_string"
	LessBytes     = "less_bytes"
	LessTimestamp = "less_timestamp"
	LessDuration  = "less_duration"

	LessEqualsBool      = "less_equals_bool"
	LessEqualsInt64     = "less_equals_int64"
	LessEqualsUint64    = "less_equals_uint64"
	LessEqualsDouble    = "less_equals_double"
	LessEqualsString    = "less_equals_string"
	LessEqualsBytes     = "less_equals_bytes"
	LessEqualsTimestamp = "less_equals_timestamp"
	LessEqualsDuration  = "less_equals_duration"

	GreaterBool      = "greater_bool"
	GreaterInt64     = "greater_int64"
	GreaterUint64    = "greater_uint64"
	GreaterDouble    = "greater_double"
	GreaterString    = "greater_string"
	GreaterBytes     = "greater_bytes"
	GreaterTimestamp = "greater_timestamp"
	GreaterDuration  = "greater_duration"

	GreaterEqualsBool      = "greater_equals_bool"
	GreaterEqualsInt64     = "greater_equals_int64"
	GreaterEqualsUint64    = "greater_equals_uint64"
	GreaterEqualsDouble    = "greater_equals_double"
	GreaterEqualsString    = "greater_equals_string"
	GreaterEqualsBytes     = "greater_equals_bytes"
	GreaterEqualsTimestamp = "greater_equals_timestamp"
	GreaterEqualsDuration  = "greater_equals_duration"
)

// Cross-type numeric comparisons (int/uint/double pairwise), installed only
// when the celenv.CrossNumericComparisons option is enabled; ordinary
// environments reject comparisons between differing numeric types.
const (
	LessIntUint      = "less_int64_uint64"
	LessIntDouble    = "less_int64_double"
	LessUintInt      = "less_uint64_int64"
	LessUintDouble   = "less_uint64_double"
	LessDoubleInt    = "less_double_int64"
	LessDoubleUint   = "less_double_uint64"

	LessEqualsIntUint    = "less_equals_int64_uint64"
	LessEqualsIntDouble  = "less_equals_int64_double"
	LessEqualsUintInt    = "less_equals_uint64_int64"
	LessEqualsUintDouble = "less_equals_uint64_double"
	LessEqualsDoubleInt  = "less_equals_double_int64"
	LessEqualsDoubleUint = "less_equals_double_uint64"

	GreaterIntUint      = "greater_int64_uint64"
	GreaterIntDouble    = "greater_int64_double"
	GreaterUintInt      = "greater_uint64_int64"
	GreaterUintDouble   = "greater_uint64_double"
	GreaterDoubleInt    = "greater_double_int64"
	GreaterDoubleUint   = "greater_double_uint64"

	GreaterEqualsIntUint    = "greater_equals_int64_uint64"
	GreaterEqualsIntDouble  = "greater_equals_int64_double"
	GreaterEqualsUintInt    = "greater_equals_uint64_int64"
	GreaterEqualsUintDouble = "greater_equals_uint64_double"
	GreaterEqualsDoubleInt  = "greater_equals_double_int64"
	GreaterEqualsDoubleUint = "greater_equals_double_uint64"
)

// Arithmetic, one overload per operand type.
const (
	AddInt64               = "add_int64"
	AddUint64               = "add_uint64"
	AddDouble               = "add_double"
	AddString               = "add_string"
	AddBytes                = "add_bytes"
	AddList                 = "add_list"
	AddTimestampDuration    = "add_timestamp_duration"
	AddDurationTimestamp    = "add_duration_timestamp"
	AddDurationDuration     = "add_duration_duration"

	SubtractInt64              = "subtract_int64"
	SubtractUint64             = "subtract_uint64"
	SubtractDouble             = "subtract_double"
	SubtractTimestampTimestamp = "subtract_timestamp_timestamp"
	SubtractTimestampDuration  = "subtract_timestamp_duration"
	SubtractDurationDuration   = "subtract_duration_duration"

	MultiplyInt64  = "multiply_int64"
	MultiplyUint64 = "multiply_uint64"
	MultiplyDouble = "multiply_double"

	DivideInt64  = "divide_int64"
	DivideUint64 = "divide_uint64"
	DivideDouble = "divide_double"

	ModuloInt64  = "modulo_int64"
	ModuloUint64 = "modulo_uint64"

	NegateInt64  = "negate_int64"
	NegateDouble = "negate_double"
)

// Indexing, containment, and sizing.
const (
	IndexList    = "index_list"
	IndexMap     = "index_map"
	IndexMessage = "index_message"

	InList    = "in_list"
	InMap     = "in_map"
	InMessage = "in_message"
	DeprecatedIn = "deprecated_in"

	Size          = "size"
	SizeString    = "size_string"
	SizeBytes     = "size_bytes"
	SizeList      = "size_list"
	SizeMap       = "size_map"
	SizeStringInst = "size_string_inst"
	SizeBytesInst  = "size_bytes_inst"
	SizeListInst   = "size_list_inst"
	SizeMapInst    = "size_map_inst"
)

// String matching.
const (
	Matches    = "matches"
	MatchString = "match_string"
)

// Type conversions, named `TypeConvert<Dest>` for the `dyn`/`int`/... cast
// functions, and `<Src>To<Dest>` for the per-source-type overload of each.
const (
	TypeConvertDyn       = "type_convert_dyn"
	TypeConvertBool      = "type_convert_bool"
	TypeConvertInt       = "type_convert_int"
	TypeConvertUint      = "type_convert_uint"
	TypeConvertDouble    = "type_convert_double"
	TypeConvertString    = "type_convert_string"
	TypeConvertBytes     = "type_convert_bytes"
	TypeConvertTimestamp = "type_convert_timestamp"
	TypeConvertDuration  = "type_convert_duration"
	TypeConvertType      = "type_convert_type"

	ToDyn = "to_dyn"

	BoolToBool = "bool_to_bool"

	IntToInt       = "int64_to_int64"
	IntToDouble    = "int64_to_double"
	IntToUint      = "int64_to_uint64"
	IntToString    = "int64_to_string"
	IntToTimestamp = "int64_to_timestamp"
	IntToDuration  = "int64_to_duration"

	UintToUint   = "uint64_to_uint64"
	UintToInt    = "uint64_to_int64"
	UintToDouble = "uint64_to_double"
	UintToString = "uint64_to_string"

	DoubleToDouble = "double_to_double"
	DoubleToInt    = "double_to_int64"
	DoubleToUint   = "double_to_uint64"
	DoubleToString = "double_to_string"

	StringToString    = "string_to_string"
	StringToBool      = "string_to_bool"
	StringToBytes     = "string_to_bytes"
	StringToDouble    = "string_to_double"
	StringToInt       = "string_to_int64"
	StringToUint      = "string_to_uint64"
	StringToTimestamp = "string_to_timestamp"
	StringToDuration  = "string_to_duration"

	BytesToBytes  = "bytes_to_bytes"
	BytesToString = "bytes_to_string"

	BoolToString = "bool_to_string"

	DurationToString       = "duration_to_string"
	DurationToDuration     = "duration_to_duration"
	DurationToInt          = "duration_to_int64"
	DurationToHours        = "duration_to_hours"
	DurationToMinutes      = "duration_to_minutes"
	DurationToSeconds      = "duration_to_seconds"
	DurationToMilliseconds = "duration_to_milliseconds"

	TimestampToTimestamp = "timestamp_to_timestamp"
	TimestampToString    = "timestamp_to_string"
	TimestampToInt       = "timestamp_to_int64"
)

// Timestamp/duration component accessors. The `<X>WithTz` overloads take an
// explicit timezone argument; the bare overloads use UTC.
const (
	TimeGetFullYear  = "time_get_full_year"
	TimeGetMonth     = "time_get_month"
	TimeGetDayOfYear = "time_get_day_of_year"
	TimeGetDayOfMonth = "time_get_day_of_month"
	TimeGetDayOfWeek = "time_get_day_of_week"
	TimeGetHours     = "time_get_hours"
	TimeGetMinutes   = "time_get_minutes"
	TimeGetSeconds   = "time_get_seconds"
	TimeGetMilliseconds = "time_get_milliseconds"

	TimestampToYear                     = "timestamp_to_year"
	TimestampToYearWithTz               = "timestamp_to_year_with_tz"
	TimestampToMonth                    = "timestamp_to_month"
	TimestampToMonthWithTz              = "timestamp_to_month_with_tz"
	TimestampToDayOfYear                = "timestamp_to_day_of_year"
	TimestampToDayOfYearWithTz          = "timestamp_to_day_of_year_with_tz"
	TimestampToDayOfMonthZeroBased      = "timestamp_to_day_of_month_zero_based"
	TimestampToDayOfMonthZeroBasedWithTz = "timestamp_to_day_of_month_zero_based_with_tz"
	TimestampToDayOfMonthOneBased      = "timestamp_to_day_of_month_one_based"
	TimestampToDayOfMonthOneBasedWithTz = "timestamp_to_day_of_month_one_based_with_tz"
	TimestampToDayOfWeek               = "timestamp_to_day_of_week"
	TimestampToDayOfWeekWithTz         = "timestamp_to_day_of_week_with_tz"
	TimestampToHours                   = "timestamp_to_hours"
	TimestampToHoursWithTz             = "timestamp_to_hours_with_tz"
	TimestampToMinutes                 = "timestamp_to_minutes"
	TimestampToMinutesWithTz           = "timestamp_to_minutes_with_tz"
	TimestampToSeconds                 = "timestamp_to_seconds"
	TimestampToSecondsWithTz           = "timestamp_to_seconds_with_tz"
	TimestampToMilliseconds            = "timestamp_to_milliseconds"
	TimestampToMillisecondsWithTz      = "timestamp_to_milliseconds_with_tz"
)

// Optional-type plug-in overloads (ext/optional), added beyond the
// reference checker's own catalogue to name the abstract-type extension's
// overloads the same way the rest of this package names built-ins.
const (
	OptionalOf             = "optional_of"
	OptionalOfNonZeroValue = "optional_ofNonZeroValue"
	OptionalNone           = "optional_none"
	OptionalHasValue       = "optional_hasValue"
	OptionalValue          = "optional_value"
	OptionalOr             = "optional_or_optional"
	OptionalOrValue        = "optional_orValue"
	OptSelect              = "select_optional_field"
	OptIndexList           = "index_list_optional_index"
	OptIndexMap            = "index_map_optional_index"
	OptMap                 = "optional_map"
	OptFlatMap             = "optional_flatMap"
)
