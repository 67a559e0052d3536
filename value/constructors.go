/*
Copyright 2019 The Fieldkit Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package value

// StringValue creates a Value representing a string.
func StringValue(s string) Value { return NewValueInterface(s) }

// IntValue creates a Value representing an int64.
func IntValue(i int) Value { return NewValueInterface(int64(i)) }

// Int64Value creates a Value representing an int64.
func Int64Value(i int64) Value { return NewValueInterface(i) }

// FloatValue creates a Value representing a float64.
func FloatValue(f float64) Value { return NewValueInterface(f) }

// BooleanValue creates a Value representing a bool.
func BooleanValue(b bool) Value { return NewValueInterface(b) }
