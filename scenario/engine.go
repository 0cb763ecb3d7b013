package scenario

import (
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/evostage/host"
)

// buildEngine exposes the fighter's host state to the script. Every function
// acts on the scenario's single fighter.
func buildEngine(sh *ScriptedHost) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f func(args ...tengo.Object) tengo.Object) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			return f(args...), nil
		}}
	}

	fn("set_status", func(args ...tengo.Object) tengo.Object {
		if n, ok := intArg(args, 0); ok {
			sh.fighter().Status = int32(n)
			return tengo.TrueValue
		}
		return tengo.FalseValue
	})
	fn("set_damage", func(args ...tengo.Object) tengo.Object {
		if v, ok := floatArg(args, 0); ok {
			sh.fighter().Damage = float32(v)
			return tengo.TrueValue
		}
		return tengo.FalseValue
	})
	fn("add_damage", func(args ...tengo.Object) tengo.Object {
		if v, ok := floatArg(args, 0); ok {
			sh.fighter().Damage += float32(v)
			return tengo.TrueValue
		}
		return tengo.FalseValue
	})
	fn("set_motion", func(args ...tengo.Object) tengo.Object {
		if n, ok := intArg(args, 0); ok {
			sh.fighter().Motion = uint64(n)
			return tengo.TrueValue
		}
		return tengo.FalseValue
	})
	fn("set_motion_frame", func(args ...tengo.Object) tengo.Object {
		if v, ok := floatArg(args, 0); ok {
			sh.fighter().MotionFrame = float32(v)
			return tengo.TrueValue
		}
		return tengo.FalseValue
	})
	fn("hit", func(args ...tengo.Object) tengo.Object {
		sh.fighter().Hits.HitLanded = true
		return tengo.TrueValue
	})
	fn("hitbox", func(args ...tengo.Object) tengo.Object {
		sh.fighter().Hits.HitboxActive = boolArg(args, 0, true)
		return tengo.TrueValue
	})
	fn("press", func(args ...tengo.Object) tengo.Object {
		if len(args) < 1 {
			return tengo.FalseValue
		}
		btn, err := host.ParseButton(objectAsString(args[0]))
		if err != nil {
			sh.logger.Warn("scenario: press", "err", err)
			return tengo.FalseValue
		}
		f := sh.fighter()
		f.Pressed = f.Pressed.With(btn)
		return tengo.TrueValue
	})
	fn("guard", func(args ...tengo.Object) tengo.Object {
		sh.fighter().Situation.Guarding = boolArg(args, 0, true)
		return tengo.TrueValue
	})
	fn("ground", func(args ...tengo.Object) tengo.Object {
		f := sh.fighter()
		f.Situation.Grounded = true
		f.Situation.Airborne = false
		return tengo.TrueValue
	})
	fn("air", func(args ...tengo.Object) tengo.Object {
		f := sh.fighter()
		f.Situation.Grounded = false
		f.Situation.Airborne = true
		return tengo.TrueValue
	})
	fn("match_rollback", func(args ...tengo.Object) tengo.Object {
		n, ok := intArg(args, 0)
		if !ok || n < 0 {
			return tengo.FalseValue
		}
		if uint32(n) > sh.mem.Match {
			sh.mem.Match = 0
		} else {
			sh.mem.Match -= uint32(n)
		}
		sh.rolledBack = true
		return tengo.TrueValue
	})
	fn("rand_int", func(args ...tengo.Object) tengo.Object {
		n, _ := intArg(args, 0)
		return &tengo.Int{Value: int64(sh.rng.IntN(n))}
	})
	fn("stage", func(args ...tengo.Object) tengo.Object {
		return &tengo.Int{Value: int64(sh.last.Stage)}
	})
	fn("evolving", func(args ...tengo.Object) tengo.Object {
		return boolObject(sh.last.Evolving)
	})
	fn("charge", func(args ...tengo.Object) tengo.Object {
		return &tengo.String{Value: sh.last.Charge}
	})
	fn("log", func(args ...tengo.Object) tengo.Object {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		sh.logger.Info("scenario: script", "msg", strings.Join(parts, " "))
		return tengo.TrueValue
	})
	fn("done", func(args ...tengo.Object) tengo.Object {
		sh.done = true
		return tengo.TrueValue
	})

	return &tengo.ImmutableMap{Value: values}
}

func intArg(args []tengo.Object, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	return tengo.ToInt(args[i])
}

func floatArg(args []tengo.Object, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return tengo.ToFloat64(args[i])
}

func boolArg(args []tengo.Object, i int, def bool) bool {
	if i >= len(args) {
		return def
	}
	return !args[i].IsFalsy()
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
