package registry

// RedirectDescriptor maps one redirect resource across the three dialects.
// ContentTypes lists the modifiers uBO requires when the rule declares none.
type RedirectDescriptor struct {
	ADG          string   `yaml:"adg" json:"adg"`
	UBO          string   `yaml:"ubo,omitempty" json:"ubo,omitempty"`
	ABP          string   `yaml:"abp,omitempty" json:"abp,omitempty"`
	ContentTypes []string `yaml:"content_types,omitempty" json:"content_types,omitempty"`
}

// EmptyRedirect needs no content type in any dialect
const EmptyRedirect = "empty"

// ContentTypes accepted as resource-type modifiers on redirect rules
var ContentTypes = []string{
	"image",
	"media",
	"subdocument",
	"stylesheet",
	"script",
	"xmlhttprequest",
	"other",
	"font",
	"object",
	"ping",
	"websocket",
	"xhr",
	"css",
	"frame",
}

var defaultRedirects = []RedirectDescriptor{
	{ADG: "1x1-transparent.gif", UBO: "1x1.gif", ABP: "1x1-transparent-gif", ContentTypes: []string{"image"}},
	{ADG: "2x2-transparent.png", UBO: "2x2.png", ABP: "2x2-transparent-png", ContentTypes: []string{"image"}},
	{ADG: "3x2-transparent.png", UBO: "3x2.png", ABP: "3x2-transparent-png", ContentTypes: []string{"image"}},
	{ADG: "32x32-transparent.png", UBO: "32x32.png", ABP: "32x32-transparent-png", ContentTypes: []string{"image"}},
	{ADG: "amazon-apstag", UBO: "amazon_apstag.js", ContentTypes: []string{"script"}},
	{ADG: "ati-smarttag"},
	{ADG: "click2load.html", UBO: "click2load.html", ContentTypes: []string{"subdocument"}},
	{ADG: EmptyRedirect, UBO: EmptyRedirect},
	{ADG: "google-analytics", UBO: "google-analytics_analytics.js", ContentTypes: []string{"script"}},
	{ADG: "google-analytics-ga", UBO: "google-analytics_ga.js", ContentTypes: []string{"script"}},
	{ADG: "googlesyndication-adsbygoogle", UBO: "googlesyndication_adsbygoogle.js", ContentTypes: []string{"xmlhttprequest", "script"}},
	{ADG: "googletagmanager-gtm", UBO: "googletagmanager_gtm.js", ContentTypes: []string{"script"}},
	{ADG: "googletagservices-gpt", UBO: "googletagservices_gpt.js", ContentTypes: []string{"script"}},
	{ADG: "metrika-yandex-tag"},
	{ADG: "metrika-yandex-watch"},
	{ADG: "noeval", UBO: "noeval-silent.js", ContentTypes: []string{"script"}},
	{ADG: "noopcss", ABP: "blank-css"},
	{ADG: "noopframe", UBO: "noop.html", ABP: "blank-html", ContentTypes: []string{"subdocument"}},
	{ADG: "noopjs", UBO: "noop.js", ABP: "blank-js", ContentTypes: []string{"script"}},
	{ADG: "noopjson"},
	{ADG: "noopmp3-0.1s", UBO: "noop-0.1s.mp3", ABP: "blank-mp3", ContentTypes: []string{"media"}},
	{ADG: "noopmp4-1s", UBO: "noop-1s.mp4", ABP: "blank-mp4", ContentTypes: []string{"media"}},
	{ADG: "nooptext", UBO: "noop.txt", ABP: "blank-text", ContentTypes: []string{
		"image", "media", "subdocument", "stylesheet", "script", "xmlhttprequest", "other",
	}},
	{ADG: "noopvast-2.0"},
	{ADG: "noopvast-3.0"},
	{ADG: "noopvast-4.0"},
	{ADG: "noopvmap-1.0"},
	{ADG: "prevent-bab", UBO: "nobab.js", ContentTypes: []string{"script"}},
	{ADG: "prevent-fab-3.2.0", UBO: "nofab.js", ContentTypes: []string{"script"}},
	{ADG: "prevent-popads-net", UBO: "popads.js", ContentTypes: []string{"script"}},
	{ADG: "scorecardresearch-beacon", UBO: "scorecardresearch_beacon.js", ContentTypes: []string{"script"}},
	{ADG: "set-popads-dummy", UBO: "popads-dummy.js", ContentTypes: []string{"script"}},
}

// compatTables are the derived lookup maps, read-only after Build
type compatTables struct {
	uboToAdg     map[string]string
	abpToAdg     map[string]string
	adgToUbo     map[string]string
	adgToAbp     map[string]string
	contentTypes map[string][]string
	adg          map[string]struct{}
}

func newCompatTables(redirects []RedirectDescriptor) compatTables {
	t := compatTables{
		uboToAdg:     make(map[string]string),
		abpToAdg:     make(map[string]string),
		adgToUbo:     make(map[string]string),
		adgToAbp:     make(map[string]string),
		contentTypes: make(map[string][]string),
		adg:          make(map[string]struct{}, len(redirects)),
	}
	for _, r := range redirects {
		t.adg[r.ADG] = struct{}{}
		if r.UBO != "" {
			t.uboToAdg[r.UBO] = r.ADG
			t.adgToUbo[r.ADG] = r.UBO
		}
		if r.ABP != "" {
			t.abpToAdg[r.ABP] = r.ADG
			t.adgToAbp[r.ADG] = r.ABP
		}
		if len(r.ContentTypes) > 0 {
			t.contentTypes[r.ADG] = append([]string(nil), r.ContentTypes...)
		}
	}
	return t
}
