package scriptgen

// runtimeTemplate renders the single Lua module emitted under
// pack/_gen/start/_rsplug/lua/_rsplug/init.lua. It is a
// pre-declared template; rendering is pure and takes only the
// ScriptBundle as input.
const runtimeTemplate = `-- generated by rsplug, do not edit by hand

local M = {}

M.manifest = {
{{- range $name, $entry := .Manifest }}
  [{{ $name | lua }}] = {
    lua_before = {{ $entry.LuaBefore | luaOrNil }},
    lua_after = {{ $entry.LuaAfter | luaOrNil }},
    lua_start = {{ $entry.LuaSource | luaOrNil }},
  },
{{- end }}
}

M.start_groups = {
{{- range .StartGroups }}
  {{ . | lua }},
{{- end }}
}

M.on_event = {
{{- range $key, $names := .OnEvent }}
  [{{ $key | lua }}] = { {{ range $names }}{{ . | lua }}, {{ end }} },
{{- end }}
}

M.on_cmd = {
{{- range $key, $names := .OnCmd }}
  [{{ $key | lua }}] = { {{ range $names }}{{ . | lua }}, {{ end }} },
{{- end }}
}

M.on_ft = {
{{- range $key, $names := .OnFT }}
  [{{ $key | lua }}] = { {{ range $names }}{{ . | lua }}, {{ end }} },
{{- end }}
}

M.on_map = {
{{- range $mode, $patterns := .OnMap }}
  [{{ $mode | modeLetter | lua }}] = {
  {{- range $pattern, $names := $patterns }}
    [{{ $pattern | lua }}] = { {{ range $names }}{{ . | lua }}, {{ end }} },
  {{- end }}
  },
{{- end }}
}

M.require = {
{{- range $mod, $names := .Require }}
  [{{ $mod | lua }}] = { {{ range $names }}{{ . | lua }}, {{ end }} },
{{- end }}
}

local activated = {}

function M.activate(pack_name)
  if activated[pack_name] then
    return
  end
  activated[pack_name] = true
  local entry = M.manifest[pack_name]
  if entry == nil then
    vim.cmd.packadd(pack_name)
    return
  end
  if entry.lua_before then
    local fn = load(entry.lua_before)
    if fn then fn() end
  end
  vim.cmd.packadd(pack_name)
  if entry.lua_after then
    local fn = load(entry.lua_after)
    if fn then fn() end
  end
end

function M.activate_all(names)
  for _, name in ipairs(names) do
    M.activate(name)
  end
end

function M.startup()
  for _, name in ipairs(M.start_groups) do
    M.activate(name)
    local entry = M.manifest[name]
    if entry and entry.lua_start then
      local fn = load(entry.lua_start)
      if fn then fn() end
    end
  end
end

for event, names in pairs(M.on_event) do
  vim.api.nvim_create_autocmd(event, {
    once = true,
    callback = function() M.activate_all(names) end,
  })
end

for cmd, names in pairs(M.on_cmd) do
  vim.api.nvim_create_user_command(cmd, function(opts)
    M.activate_all(names)
    vim.cmd(cmd .. " " .. opts.args)
  end, { nargs = "*", bang = true })
end

for ft, names in pairs(M.on_ft) do
  vim.api.nvim_create_autocmd("FileType", {
    pattern = ft,
    once = true,
    callback = function() M.activate_all(names) end,
  })
end

for mod, names in pairs(M.require) do
  local orig = package.preload[mod]
  package.preload[mod] = function(...)
    M.activate_all(names)
    package.preload[mod] = orig
    return require(mod)
  end
end

local placeholder_installed = {}

local function remove_placeholders(pattern)
  local modes = placeholder_installed[pattern]
  if not modes then return end
  for _, mode in ipairs(modes) do
    pcall(vim.keymap.del, mode, pattern)
  end
  placeholder_installed[pattern] = nil
end

local function install_placeholder(mode, pattern, names)
  vim.keymap.set(mode, pattern, function()
    remove_placeholders(pattern)
    M.activate_all(names)
    if mode == "n" then
      -- re-arm operator-pending so a pending operator before packadd
      -- (e.g. "d" then this mapping) is not dropped by the reload.
      vim.api.nvim_feedkeys(vim.api.nvim_replace_termcodes("<Ignore>", true, false, true), "n", false)
    end
    vim.api.nvim_feedkeys(vim.api.nvim_replace_termcodes(pattern, true, false, true), mode, false)
  end, { silent = true })
end

function M.install_mode_maps(mode)
  local patterns = M.on_map[string.byte(mode, 1)]
  if not patterns then return end
  for pattern, names in pairs(patterns) do
    if not placeholder_installed[pattern] then
      placeholder_installed[pattern] = {}
    end
    table.insert(placeholder_installed[pattern], mode)
    install_placeholder(mode, pattern, names)
    if mode == "n" then
      install_placeholder("o", pattern, names)
    end
  end
end

vim.api.nvim_create_autocmd("ModeChanged", {
  callback = function(ev)
    local to = vim.v.event.new_mode:sub(1, 1)
    M.install_mode_maps(to)
  end,
})

M.install_mode_maps("n")

return M
`
