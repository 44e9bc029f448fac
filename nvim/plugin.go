package nvim

import (
	"fmt"
	"os"

	"github.com/neovim/go-client/nvim"
	"github.com/sirupsen/logrus"

	statline "github.com/grovetools/statline"
	"github.com/grovetools/statline/config"
	"github.com/grovetools/statline/errors"
	"github.com/grovetools/statline/logging"
	"github.com/grovetools/statline/progress"
)

// Plugin runs the statline controller as a Neovim RPC plugin over stdio.
type Plugin struct {
	v    *nvim.Nvim
	ctrl *statline.Controller
	log  *logrus.Entry
}

// Serve attaches to Neovim over stdin/stdout, wires the controller, and
// blocks until the host detaches. cfg drives every timing and style knob;
// workDir anchors the branch poller.
func Serve(cfg config.Config, workDir string) error {
	v, err := nvim.New(os.Stdin, os.Stdout, os.Stdout, func(format string, args ...interface{}) {
		logging.NewLogger("nvim").Debugf(format, args...)
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHostRPC, "failed to attach to nvim")
	}

	// g:statline_config, when set, overrides the file-based config so users
	// can keep everything in their init.lua.
	if dict := editorConfig(v); len(dict) > 0 {
		override, err := config.FromMap(dict)
		if err != nil {
			return err
		}
		cfg = override
	}

	adapter := NewAdapter(v)
	p := &Plugin{
		v: v,
		ctrl: statline.New(cfg, adapter, adapter,
			statline.WithEncoder(Markup),
			statline.WithWorkDir(workDir)),
		log: logging.NewLogger("nvim"),
	}

	if err := p.register(); err != nil {
		return err
	}
	if err := p.ctrl.Setup(); err != nil {
		return err
	}
	if err := p.install(); err != nil {
		p.ctrl.Shutdown()
		return err
	}

	p.log.Info("statline attached")
	err = v.Serve()
	p.ctrl.Shutdown()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeHostDetached, "nvim connection closed")
	}
	return nil
}

// editorConfig reads the g:statline_config dictionary, empty when unset.
func editorConfig(v *nvim.Nvim) map[string]interface{} {
	var dict map[string]interface{}
	if err := v.ExecLua("return vim.g.statline_config or vim.empty_dict()", &dict); err != nil {
		logging.NewLogger("nvim").WithError(err).Debug("could not read g:statline_config")
		return nil
	}
	return dict
}

// register installs the RPC handlers the Lua side calls.
func (p *Plugin) register() error {
	handlers := map[string]interface{}{
		"statline_render":   p.handleRender,
		"statline_event":    p.handleEvent,
		"statline_progress": p.handleProgress,
		"statline_msg":      p.handleMessage,
		"statline_colors":   p.handleColors,
	}
	for name, fn := range handlers {
		if err := p.v.RegisterHandler(name, fn); err != nil {
			return errors.HostRPC("register "+name, err)
		}
	}
	return nil
}

// install sets the statusline expression and the forwarding autocmds.
func (p *Plugin) install() error {
	if err := p.v.ExecLua(installLua, nil, p.v.ChannelID()); err != nil {
		return errors.HostRPC("statline install", err)
	}
	return nil
}

func (p *Plugin) handleRender(active bool) (string, error) {
	if active {
		return p.ctrl.RenderActive(), nil
	}
	return p.ctrl.RenderInactive(), nil
}

func (p *Plugin) handleEvent(name string) {
	p.ctrl.HandleEvent(statline.Event(name))
}

func (p *Plugin) handleProgress(payload map[string]interface{}) {
	n, err := parseProgress(payload)
	if err != nil {
		p.log.WithError(err).Debug("dropping malformed progress notification")
		return
	}
	p.ctrl.Progress(n)
}

func (p *Plugin) handleMessage(text string) {
	if text == "" {
		p.ctrl.ClearMessage()
		return
	}
	p.ctrl.Notify(text)
}

func (p *Plugin) handleColors() {
	p.ctrl.RefreshColors()
}

// parseProgress decodes the loosely typed payload forwarded from Lua.
func parseProgress(payload map[string]interface{}) (progress.Notification, error) {
	n := progress.Notification{Token: asString(payload["token"])}
	if n.Token == "" {
		return n, errors.New(errors.ErrCodeInvalidInput, "progress notification without token")
	}

	switch asString(payload["kind"]) {
	case "begin":
		n.Kind = progress.KindBegin
	case "report":
		n.Kind = progress.KindReport
	case "end":
		n.Kind = progress.KindEnd
	default:
		return n, errors.New(errors.ErrCodeInvalidInput, "unknown progress kind")
	}

	n.Title = asString(payload["title"])
	n.Message = asString(payload["message"])
	if pct, ok := asInt(payload["percentage"]); ok {
		n.Percentage = pct
		n.HasPercentage = true
	}
	return n, nil
}

// asString renders scalar msgpack values; tokens arrive as strings or
// numbers depending on the server.
func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return fmt.Sprintf("%d", t)
	case uint64:
		return fmt.Sprintf("%d", t)
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}

func asInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		return int(t), true
	default:
		return 0, false
	}
}

// installLua wires Neovim to the plugin channel: the statusline expression
// requests a render per window, autocmds forward invalidation events, LSP
// progress is relayed from the builtin handler, and vim.notify is wrapped so
// echo-area messages land in the status line instead. _G.statline_uninstall
// restores everything.
const installLua = `
local chan = ...
local group = vim.api.nvim_create_augroup("statline", { clear = true })

_G.statline_render = function()
  local active = vim.g.statusline_winid == vim.api.nvim_get_current_win()
  local ok, line = pcall(vim.rpcrequest, chan, "statline_render", active)
  if ok then return line end
  return ""
end

vim.o.statusline = "%!v:lua.statline_render()"

local function forward(event, name)
  vim.api.nvim_create_autocmd(event, {
    group = group,
    callback = function()
      vim.rpcnotify(chan, "statline_event", name)
    end,
  })
end

forward({ "CursorMoved", "CursorMovedI" }, "cursor-moved")
forward({ "DiagnosticChanged" }, "diagnostics-changed")
forward({ "ColorScheme" }, "colors-changed")
forward({ "WinEnter", "WinLeave", "FocusGained", "FocusLost" }, "focus-changed")

vim.api.nvim_create_autocmd("LspProgress", {
  group = group,
  callback = function(args)
    local value = args.data.params.value
    vim.rpcnotify(chan, "statline_progress", {
      token = tostring(args.data.params.token),
      kind = value.kind,
      title = value.title,
      message = value.message,
      percentage = value.percentage,
    })
  end,
})

local orig_notify = vim.notify
vim.notify = function(msg, level, opts)
  if type(msg) == "string" and msg ~= "" then
    vim.rpcnotify(chan, "statline_msg", msg)
    return
  end
  return orig_notify(msg, level, opts)
end

_G.statline_uninstall = function()
  vim.api.nvim_del_augroup_by_id(group)
  vim.notify = orig_notify
  vim.o.statusline = ""
  _G.statline_render = nil
  _G.statline_uninstall = nil
end
`
