package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/sourcebuf/internal/engine"
	"github.com/dshills/sourcebuf/internal/engine/clipboard"
)

// bufferModule implements the buf table.
type bufferModule struct {
	h *engine.Handler
}

func registerBuffer(L *lua.LState, h *engine.Handler) {
	m := &bufferModule{h: h}
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"name":       m.name,
		"line_count": m.lineCount,
		"lines":      m.lines,
		"search":     m.search,
		"edit":       m.edit,
		"replace":    m.replace,
		"undo":       m.undo,
		"redo":       m.redo,
		"copy":       m.copy,
		"paste":      m.paste,
	})
	L.SetGlobal("buf", mod)
}

// name() -> string
func (m *bufferModule) name(L *lua.LState) int {
	L.Push(lua.LString(m.h.FileName()))
	return 1
}

// line_count() -> int
func (m *bufferModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.h.LineCount()))
	return 1
}

// lines(start, count) -> {string...}
// Reads through the windowed API, so the range is clamped to the file.
func (m *bufferModule) lines(L *lua.LState) int {
	start := L.CheckInt(1)
	count := L.CheckInt(2)

	pg, err := m.h.LinesFrom(engine.PageRequest{
		FileName:     m.h.FileName(),
		StartingLine: start,
		Count:        count,
	})
	if err != nil {
		L.RaiseError("lines: %v", err)
		return 0
	}
	L.Push(stringsToTable(L, pg.Lines))
	return 1
}

// search(pattern) -> {{line=, col=}...}
func (m *bufferModule) search(L *lua.LState) int {
	pattern := L.CheckString(1)

	found, err := m.h.Search(engine.SearchRequest{Pattern: pattern, FileName: m.h.FileName()})
	if err != nil {
		L.RaiseError("search: %v", err)
		return 0
	}
	tbl := L.CreateTable(len(found), 0)
	for _, c := range found {
		hit := L.CreateTable(0, 2)
		hit.RawSetString("line", lua.LNumber(c.Line))
		hit.RawSetString("col", lua.LNumber(c.Column))
		tbl.Append(hit)
	}
	L.Push(tbl)
	return 1
}

// edit(start, end, {string...})
// Replaces lines [start, end) with the given lines.
func (m *bufferModule) edit(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	lines := tableToStrings(L, 3)

	err := m.h.EditLines(engine.EditRequest{
		StartingLine: start,
		EndingLine:   end,
		Lines:        lines,
		FileName:     m.h.FileName(),
	})
	if err != nil {
		L.RaiseError("edit: %v", err)
	}
	return 0
}

// replace(pattern, replacement)
func (m *bufferModule) replace(L *lua.LState) int {
	pattern := L.CheckString(1)
	replacement := L.CheckString(2)

	err := m.h.SearchReplace(engine.SearchReplaceRequest{
		Pattern:     pattern,
		Replacement: replacement,
		FileName:    m.h.FileName(),
	})
	if err != nil {
		L.RaiseError("replace: %v", err)
	}
	return 0
}

// undo() -> bool
func (m *bufferModule) undo(L *lua.LState) int {
	L.Push(lua.LBool(m.h.Undo()))
	return 1
}

// redo() -> bool
func (m *bufferModule) redo(L *lua.LState) int {
	L.Push(lua.LBool(m.h.Redo()))
	return 1
}

// copy({string...})
func (m *bufferModule) copy(L *lua.LState) int {
	m.h.SetCopyBuffer(clipboard.New(tableToStrings(L, 1)...))
	return 0
}

// paste() -> {string...}
func (m *bufferModule) paste(L *lua.LState) int {
	L.Push(stringsToTable(L, m.h.CopyBuffer().Lines))
	return 1
}

func stringsToTable(L *lua.LState, lines []string) *lua.LTable {
	tbl := L.CreateTable(len(lines), 0)
	for _, s := range lines {
		tbl.Append(lua.LString(s))
	}
	return tbl
}

// tableToStrings reads the array part of the table argument at arg.
// Non-string entries are an argument error.
func tableToStrings(L *lua.LState, arg int) []string {
	tbl := L.CheckTable(arg)
	n := tbl.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		v := tbl.RawGetInt(i)
		s, ok := v.(lua.LString)
		if !ok {
			L.ArgError(arg, "expected a list of strings")
			return nil
		}
		out = append(out, string(s))
	}
	return out
}
