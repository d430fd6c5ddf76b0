package domain

// SetupScript is the per-pack manifest entry the script emitter produces: the Lua snippets
// that must run around `packadd` for one generated pack entry.
type SetupScript struct {
	LuaBefore string
	LuaAfter  string
	LuaSource string // unioned lua_start snippets of the group's members; run at startup for eager groups only
}

// ScriptBundle is the script emitter's full output: the data backing the runtime glue
// scripts
type ScriptBundle struct {
	// Manifest maps pack name -> setup script.
	Manifest map[string]SetupScript

	// StartGroups lists eager pack names in DAG order, for the
	// dispatcher's startup lua_start pass.
	StartGroups []string

	OnEvent map[string][]string            // event -> pack names
	OnCmd   map[string][]string            // command -> pack names
	OnFT    map[string][]string            // filetype -> pack names
	OnMap   map[byte]map[string][]string   // mode -> key pattern -> pack names
	Require map[string][]string            // module name -> pack names
}

// NewScriptBundle returns an empty, initialized ScriptBundle.
func NewScriptBundle() *ScriptBundle {
	return &ScriptBundle{
		Manifest: make(map[string]SetupScript),
		OnEvent:  make(map[string][]string),
		OnCmd:    make(map[string][]string),
		OnFT:     make(map[string][]string),
		OnMap:    make(map[byte]map[string][]string),
		Require:  make(map[string][]string),
	}
}
