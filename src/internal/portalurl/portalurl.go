// Package portalurl renders the login redirect URL handed to clients that
// are not yet admitted.
package portalurl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/fasttemplate"

	"github.com/captivegate/captivegate/src/internal/utils"
)

// Placeholders understood in the login URL template, e.g.
// "https://auth.example/login?gw_id={{gw_id}}&mac={{mac}}&url={{url}}".
const (
	TagGatewayAddress = "gw_address"
	TagGatewayPort    = "gw_port"
	TagGatewayID      = "gw_id"
	TagMAC            = "mac"
	TagIP             = "ip"
	TagURL            = "url"
)

// Params are the values substituted into the template. All of them are
// URL-encoded on output.
type Params struct {
	GatewayAddress string
	GatewayPort    int
	GatewayID      string
	MAC            string
	IP             string
	URL            string
}

func (p Params) lookup(tag string) (string, bool) {
	switch tag {
	case TagGatewayAddress:
		return p.GatewayAddress, true
	case TagGatewayPort:
		return strconv.Itoa(p.GatewayPort), true
	case TagGatewayID:
		return p.GatewayID, true
	case TagMAC:
		return p.MAC, true
	case TagIP:
		return p.IP, true
	case TagURL:
		return p.URL, true
	}
	return "", false
}

// Template is a parsed login URL template.
type Template struct {
	raw string
	t   *fasttemplate.Template
}

// Parse parses tmpl. Unknown placeholders are rejected here rather than at
// render time.
func Parse(tmpl string) (*Template, error) {
	t, err := fasttemplate.NewTemplate(tmpl, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("invalid login URL template: %w", err)
	}
	parsed := &Template{raw: tmpl, t: t}
	if _, err := parsed.Render(Params{}); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Render substitutes p into the template.
func (t *Template) Render(p Params) (string, error) {
	return t.t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		v, ok := p.lookup(tag)
		if !ok {
			return 0, fmt.Errorf("unknown placeholder {{%s}} in login URL template", tag)
		}
		return w.Write([]byte(utils.URLEncode(v)))
	})
}

func (t *Template) String() string {
	return t.raw
}

// Render parses tmpl and renders it once.
func Render(tmpl string, p Params) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	return t.Render(p)
}
