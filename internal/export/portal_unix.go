//go:build linux || freebsd || openbsd || netbsd || dragonfly

package export

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalSaveFile  = "org.freedesktop.portal.FileChooser.SaveFile"
	portalResponse  = "org.freedesktop.portal.Request.Response"
	portalCloseCall = "org.freedesktop.portal.Request.Close"
)

var portalHandleToken = newPortalHandleToken

// PortalChooser shows the desktop's native save dialog through
// xdg-desktop-portal.
type PortalChooser struct {
	// ParentWindow is the portal parent window identifier, usually empty.
	ParentWindow string
}

type portalPattern struct {
	Kind    uint32
	Pattern string
}

type portalFilter struct {
	Name     string
	Patterns []portalPattern
}

var pngFilter = portalFilter{Name: "png files (*.png)", Patterns: []portalPattern{{Kind: 0, Pattern: "*.png"}}}

func (p PortalChooser) ChooseSavePath(ctx context.Context, req Request) (string, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return "", fmt.Errorf("%w: dbus connect: %v", ErrUnavailable, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	defer conn.RemoveSignal(sigc)
	rule := "type='signal',interface='org.freedesktop.portal.Request',member='Response'"
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return "", fmt.Errorf("%w: portal subscribe: %v", ErrUnavailable, err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	obj := conn.Object(portalDest, portalPath)
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, portalSaveFile, 0, p.ParentWindow, req.Title, portalSaveOptions(req))
	if call.Err != nil {
		return "", fmt.Errorf("%w: portal save call: %v", ErrUnavailable, call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return "", fmt.Errorf("portal save response: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			conn.Object(portalDest, handle).Call(portalCloseCall, 0)
			return "", ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return "", fmt.Errorf("portal save: connection closed")
			}
			if sig.Path != handle || sig.Name != portalResponse {
				continue
			}
			return parseSaveResponse(sig.Body)
		}
	}
}

func newPortalHandleToken() string {
	return fmt.Sprintf("sketchpad_%d", time.Now().UnixNano())
}

func portalSaveOptions(req Request) map[string]dbus.Variant {
	name := req.SuggestedName
	if name == "" {
		name = DefaultRequest().SuggestedName
	}
	opts := map[string]dbus.Variant{
		"handle_token":   dbus.MakeVariant(portalHandleToken()),
		"modal":          dbus.MakeVariant(true),
		"current_name":   dbus.MakeVariant(EnsurePNGExtension(name)),
		"filters":        dbus.MakeVariant([]portalFilter{pngFilter}),
		"current_filter": dbus.MakeVariant(pngFilter),
	}
	if req.Folder != "" {
		// the portal expects a NUL-terminated byte string
		opts["current_folder"] = dbus.MakeVariant(append([]byte(req.Folder), 0))
	}
	return opts
}

// parseSaveResponse decodes the body of a Request.Response signal. Response
// code 0 carries the chosen URI, 1 means the user cancelled.
func parseSaveResponse(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", fmt.Errorf("portal save: malformed response")
	}
	code, ok := body[0].(uint32)
	if !ok {
		return "", fmt.Errorf("portal save: response code is %T", body[0])
	}
	switch code {
	case 0:
	case 1:
		return "", ErrCancelled
	default:
		return "", fmt.Errorf("portal save: dialog failed with code %d", code)
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("portal save: results are %T", body[1])
	}
	v, ok := results["uris"]
	if !ok {
		return "", fmt.Errorf("portal save: response missing uris")
	}
	uris, ok := v.Value().([]string)
	if !ok || len(uris) == 0 {
		return "", fmt.Errorf("portal save: response has no uris")
	}
	return pathFromURI(uris[0])
}

func pathFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", fmt.Errorf("portal save: unsupported uri %q", uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("portal save: parse uri: %w", err)
	}
	return u.Path, nil
}
