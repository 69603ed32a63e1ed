package dashboard

import (
	"fmt"
	"html/template"
	"net/netip"
)

// Muted palette readable on the dark surface.
var badgePalette = [...]string{
	"#7ec8e3",
	"#a78bda",
	"#e8a0bf",
	"#f4b183",
	"#b5d99c",
	"#8cc5b2",
	"#d6c28e",
	"#c9a9e0",
}

// ipBadge returns a small SVG that is identical for identical source
// addresses, so repeat offenders stand out in the alerts table. Each
// quadrant is coloured from one IPv4 octet; other addresses hash instead.
// Private and loopback sources get a dashed outline.
func ipBadge(ip string, size int) template.HTML {
	if ip == "" {
		return ""
	}

	var seeds [4]uint32
	outline := `stroke="none"`
	if addr, err := netip.ParseAddr(ip); err == nil {
		if addr.Is4() {
			b := addr.As4()
			for i := range seeds {
				seeds[i] = uint32(b[i])
			}
		} else {
			h := fnv32a(ip)
			for i := range seeds {
				seeds[i] = h >> (uint(i) * 8)
			}
		}
		if addr.IsPrivate() || addr.IsLoopback() {
			outline = `stroke="#8888aa" stroke-width="3" stroke-dasharray="4 3"`
		}
	} else {
		h := fnv32a(ip)
		for i := range seeds {
			seeds[i] = h >> (uint(i) * 8)
		}
	}

	pl := uint32(len(badgePalette))
	body := fmt.Sprintf(
		`<path d="M20 20V0A20 20 0 0 1 40 20Z" fill="%s"/>`+
			`<path d="M20 20H40A20 20 0 0 1 20 40Z" fill="%s"/>`+
			`<path d="M20 20V40A20 20 0 0 1 0 20Z" fill="%s"/>`+
			`<path d="M20 20H0A20 20 0 0 1 20 0Z" fill="%s"/>`+
			`<circle cx="20" cy="20" r="18.5" fill="none" %s/>`,
		badgePalette[seeds[0]%pl], badgePalette[seeds[1]%pl],
		badgePalette[seeds[2]%pl], badgePalette[seeds[3]%pl], outline)

	return template.HTML(fmt.Sprintf(
		`<svg class="ip-badge" width="%d" height="%d" viewBox="0 0 40 40">%s</svg>`,
		size, size, body))
}

// ipCell returns badge + address wrapped for table cell display.
func ipCell(ip string) template.HTML {
	if ip == "" {
		return ""
	}
	return template.HTML(fmt.Sprintf(
		`<span class="ip-cell">%s %s</span>`,
		ipBadge(ip, 16), template.HTMLEscapeString(ip)))
}

// fnv32a implements FNV-1a.
func fnv32a(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
