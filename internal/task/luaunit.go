package task

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
)

// decodeLuaUnit loads a scripted unit from path. The script's top level
// runs once to populate its metadata globals (summary, doc, recursive)
// and define the run function. ok=false means the file is missing or its
// top level fails; a script that runs but defines no global run function
// reports ok=true with a nil Run.
func decodeLuaUnit(path, name string) (*Task, bool) {
	if _, err := os.Stat(path); err != nil {
		return nil, false
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, false
	}

	t := &Task{Name: name}
	if s, ok := L.GetGlobal("summary").(lua.LString); ok {
		t.Summary = string(s)
	}
	if s, ok := L.GetGlobal("doc").(lua.LString); ok {
		t.Doc = string(s)
	}
	if b, ok := L.GetGlobal("recursive").(lua.LBool); ok {
		t.Recursive = bool(b)
	}
	if _, ok := L.GetGlobal("run").(*lua.LFunction); ok {
		t.Run = luaRun(path)
	}
	return t, true
}

// luaRun builds the run capability for a scripted unit. Each invocation
// executes the unit file in a fresh interpreter, so state never leaks
// between projects of a recursive fan-out. The script sees a global
// project table (id, root, vars) and receives the invocation args as the
// single argument of its run function.
func luaRun(path string) RunFunc {
	return func(ctx context.Context, env Env, args []string) (any, error) {
		L := lua.NewState()
		defer L.Close()
		L.SetContext(ctx)

		project := L.NewTable()
		project.RawSetString("id", lua.LString(env.ProjectID))
		project.RawSetString("root", lua.LString(env.Root))
		vars := L.NewTable()
		for k, v := range env.Vars {
			vars.RawSetString(k, lua.LString(v))
		}
		project.RawSetString("vars", vars)
		L.SetGlobal("project", project)

		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		fn, ok := L.GetGlobal("run").(*lua.LFunction)
		if !ok {
			return nil, fmt.Errorf("%s: no run function", filepath.Base(path))
		}

		argsTable := L.NewTable()
		for _, a := range args {
			argsTable.Append(lua.LString(a))
		}

		if err := L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, argsTable); err != nil {
			return nil, err
		}
		ret := L.Get(-1)
		L.Pop(1)
		return goValue(ret), nil
	}
}

// goValue converts a Lua return value to a plain Go value. Tables and
// other structured values fall back to their string form; run results
// are only ever displayed, not re-interpreted.
func goValue(v lua.LValue) any {
	switch v := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	default:
		return v.String()
	}
}
