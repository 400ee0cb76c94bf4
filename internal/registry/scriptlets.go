package registry

// ScriptletDescriptor is one scriptlet with every name it can be invoked by
type ScriptletDescriptor struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Names returns the canonical name followed by the aliases
func (d ScriptletDescriptor) Names() []string {
	names := make([]string, 0, len(d.Aliases)+1)
	names = append(names, d.Name)
	for _, a := range d.Aliases {
		if a != d.Name {
			names = append(names, a)
		}
	}
	return names
}

// Scriptlet names with conversion quirks
const (
	SetConstantName = "set-constant"
	RemoveAttrName  = "remove-attr"
	RemoveClassName = "remove-class"
)

var defaultScriptlets = []ScriptletDescriptor{
	{Name: "abort-current-inline-script", Aliases: []string{
		"abort-current-inline-script.js", "ubo-abort-current-inline-script.js",
		"acis.js", "ubo-acis.js", "ubo-abort-current-inline-script", "ubo-acis",
		"abp-abort-current-inline-script",
	}},
	{Name: "abort-on-property-read", Aliases: []string{
		"abort-on-property-read.js", "ubo-abort-on-property-read.js",
		"aopr.js", "ubo-aopr.js", "ubo-abort-on-property-read", "ubo-aopr",
		"abp-abort-on-property-read",
	}},
	{Name: "abort-on-property-write", Aliases: []string{
		"abort-on-property-write.js", "ubo-abort-on-property-write.js",
		"aopw.js", "ubo-aopw.js", "ubo-abort-on-property-write", "ubo-aopw",
		"abp-abort-on-property-write",
	}},
	{Name: "abort-on-stack-trace", Aliases: []string{
		"abort-on-stack-trace.js", "ubo-abort-on-stack-trace.js",
		"aost.js", "ubo-aost.js", "ubo-abort-on-stack-trace", "ubo-aost",
		"abp-abort-on-stack-trace",
	}},
	{Name: "adjust-setInterval", Aliases: []string{
		"nano-setInterval-booster.js", "ubo-nano-setInterval-booster.js",
		"nano-sib.js", "ubo-nano-sib.js", "ubo-nano-setInterval-booster", "ubo-nano-sib",
	}},
	{Name: "adjust-setTimeout", Aliases: []string{
		"nano-setTimeout-booster.js", "ubo-nano-setTimeout-booster.js",
		"nano-stb.js", "ubo-nano-stb.js", "ubo-nano-setTimeout-booster", "ubo-nano-stb",
	}},
	{Name: "close-window", Aliases: []string{
		"window-close-if.js", "ubo-window-close-if.js", "ubo-window-close-if",
	}},
	{Name: "debug-current-inline-script"},
	{Name: "debug-on-property-read"},
	{Name: "debug-on-property-write"},
	{Name: "dir-string"},
	{Name: "disable-newtab-links", Aliases: []string{
		"disable-newtab-links.js", "ubo-disable-newtab-links.js", "ubo-disable-newtab-links",
	}},
	{Name: "hide-in-shadow-dom"},
	{Name: "json-prune", Aliases: []string{
		"json-prune.js", "ubo-json-prune.js", "ubo-json-prune", "abp-json-prune",
	}},
	{Name: "log"},
	{Name: "log-addEventListener", Aliases: []string{
		"addEventListener-logger.js", "ubo-addEventListener-logger.js",
		"aell.js", "ubo-aell.js", "ubo-addEventListener-logger", "ubo-aell",
	}},
	{Name: "log-eval"},
	{Name: "log-on-stack-trace"},
	{Name: "no-topics"},
	{Name: "noeval", Aliases: []string{
		"noeval.js", "silent-noeval.js", "ubo-noeval.js", "ubo-silent-noeval.js",
		"ubo-noeval", "ubo-silent-noeval",
	}},
	{Name: "nowebrtc", Aliases: []string{
		"nowebrtc.js", "ubo-nowebrtc.js", "ubo-nowebrtc",
	}},
	{Name: "prevent-addEventListener", Aliases: []string{
		"addEventListener-defuser.js", "ubo-addEventListener-defuser.js",
		"aeld.js", "ubo-aeld.js", "ubo-addEventListener-defuser", "ubo-aeld",
		"prevent-addEventListener.js", "ubo-prevent-addEventListener.js", "ubo-prevent-addEventListener",
	}},
	{Name: "prevent-adfly", Aliases: []string{
		"adfly-defuser.js", "ubo-adfly-defuser.js", "ubo-adfly-defuser",
	}},
	{Name: "prevent-bab", Aliases: []string{
		"nobab.js", "ubo-nobab.js", "bab-defuser.js", "ubo-bab-defuser.js",
		"ubo-nobab", "ubo-bab-defuser",
	}},
	{Name: "prevent-eval-if", Aliases: []string{
		"noeval-if.js", "ubo-noeval-if.js", "ubo-noeval-if",
	}},
	{Name: "prevent-fab-3.2.0", Aliases: []string{
		"nofab.js", "ubo-nofab.js", "fuckadblock.js-3.2.0", "ubo-fuckadblock.js-3.2.0", "ubo-nofab",
	}},
	{Name: "prevent-fetch", Aliases: []string{
		"no-fetch-if.js", "ubo-no-fetch-if.js", "ubo-no-fetch-if",
	}},
	{Name: "prevent-popads-net", Aliases: []string{
		"popads.net.js", "ubo-popads.net.js", "ubo-popads.net",
	}},
	{Name: "prevent-refresh", Aliases: []string{
		"refresh-defuser.js", "ubo-refresh-defuser.js", "ubo-refresh-defuser",
	}},
	{Name: "prevent-requestAnimationFrame", Aliases: []string{
		"no-requestAnimationFrame-if.js", "ubo-no-requestAnimationFrame-if.js",
		"norafif.js", "ubo-norafif.js", "ubo-no-requestAnimationFrame-if", "ubo-norafif",
	}},
	{Name: "prevent-setInterval", Aliases: []string{
		"no-setInterval-if.js", "ubo-no-setInterval-if.js",
		"setInterval-defuser.js", "ubo-setInterval-defuser.js",
		"nosiif.js", "ubo-nosiif.js", "sid.js", "ubo-sid.js",
		"ubo-no-setInterval-if", "ubo-setInterval-defuser", "ubo-nosiif", "ubo-sid",
	}},
	{Name: "prevent-setTimeout", Aliases: []string{
		"no-setTimeout-if.js", "ubo-no-setTimeout-if.js",
		"nostif.js", "ubo-nostif.js", "ubo-no-setTimeout-if", "ubo-nostif",
		"setTimeout-defuser.js", "ubo-setTimeout-defuser.js", "ubo-setTimeout-defuser",
		"std.js", "ubo-std.js", "ubo-std",
	}},
	{Name: "prevent-window-open", Aliases: []string{
		"window.open-defuser.js", "ubo-window.open-defuser.js", "ubo-window.open-defuser",
		"nowoif.js", "ubo-nowoif.js", "ubo-nowoif",
		"no-window-open-if.js", "ubo-no-window-open-if.js", "ubo-no-window-open-if",
	}},
	{Name: "prevent-xhr", Aliases: []string{
		"no-xhr-if.js", "ubo-no-xhr-if.js", "ubo-no-xhr-if",
	}},
	{Name: RemoveAttrName, Aliases: []string{
		"remove-attr.js", "ubo-remove-attr.js", "ra.js", "ubo-ra.js", "ubo-remove-attr", "ubo-ra",
	}},
	{Name: RemoveClassName, Aliases: []string{
		"remove-class.js", "ubo-remove-class.js", "rc.js", "ubo-rc.js", "ubo-remove-class", "ubo-rc",
	}},
	{Name: "remove-cookie", Aliases: []string{
		"cookie-remover.js", "ubo-cookie-remover.js", "ubo-cookie-remover",
		"remove-cookie.js", "ubo-remove-cookie.js", "ubo-remove-cookie",
		"abp-cookie-remover",
	}},
	{Name: "set-attr"},
	{Name: SetConstantName, Aliases: []string{
		"set-constant.js", "ubo-set-constant.js", "set.js", "ubo-set.js",
		"ubo-set-constant", "ubo-set", "abp-override-property-read",
	}},
	{Name: "set-cookie"},
	{Name: "set-local-storage-item"},
	{Name: "set-popads-dummy", Aliases: []string{
		"popads-dummy.js", "ubo-popads-dummy.js", "ubo-popads-dummy",
	}},
	{Name: "set-session-storage-item"},
}
