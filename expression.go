/*
Copyright © 2018 the mgpoisson authors.
This file is part of mgpoisson.

mgpoisson is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mgpoisson is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mgpoisson.  If not, see <http://www.gnu.org/licenses/>.
*/

package mgpoisson

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// oneArg wraps a scalar math function as an expression function.
func oneArg(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("mgpoisson: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		v, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("mgpoisson: argument to '%s' is %T, not a number", name, arg[0])
		}
		return fn(v), nil
	}
}

// expressionFunctions are the functions available in field expressions.
var expressionFunctions = map[string]govaluate.ExpressionFunction{
	"sin":  oneArg("sin", math.Sin),
	"cos":  oneArg("cos", math.Cos),
	"tan":  oneArg("tan", math.Tan),
	"exp":  oneArg("exp", math.Exp),
	"log":  oneArg("log", math.Log),
	"sqrt": oneArg("sqrt", math.Sqrt),
	"abs":  oneArg("abs", math.Abs),
	"sinh": oneArg("sinh", math.Sinh),
	"cosh": oneArg("cosh", math.Cosh),
}

// ParseFunction compiles expr into a function of the coordinates x and y.
// Besides x and y, the expression may refer to pi and to any name in
// params, and may call sin, cos, tan, exp, log, sqrt, abs, sinh and cosh.
// Exponentiation is written "**".
// Evaluation failures at a point yield NaN, which problem construction
// reports as ErrNotFinite. The returned function is not safe for
// concurrent use.
func ParseFunction(expr string, params map[string]float64) (func(x, y float64) float64, error) {
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, expressionFunctions)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrExpression, expr, err)
	}
	vars := map[string]interface{}{"x": 0.0, "y": 0.0, "pi": math.Pi}
	for k, v := range params {
		vars[k] = v
	}
	for _, v := range e.Vars() {
		if _, ok := vars[v]; !ok {
			return nil, fmt.Errorf("%w: %q: undefined variable '%s'", ErrExpression, expr, v)
		}
	}
	return func(x, y float64) float64 {
		vars["x"], vars["y"] = x, y
		r, err := e.Evaluate(vars)
		if err != nil {
			return math.NaN()
		}
		v, ok := r.(float64)
		if !ok {
			return math.NaN()
		}
		return v
	}, nil
}
