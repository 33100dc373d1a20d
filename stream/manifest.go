// Package stream provides the client for the remote transcoding/streaming service.
package stream

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Rendition is one bitrate/resolution variant of an adaptive stream, as
// announced by a master playlist's #EXT-X-STREAM-INF entry.
type Rendition struct {
	URI       string
	Width     int
	Height    int
	Bandwidth int
}

// Label renders the conventional vertical-resolution name of the rendition, e.g. "720p".
func (r Rendition) Label() string {
	if r.Height <= 0 {
		return fmt.Sprintf("%d kbps", r.Bandwidth/1000)
	}
	return fmt.Sprintf("%dp", r.Height)
}

// Manifest is a parsed master playlist: one sub-playlist per rendition.
// Sub-playlists of a live transcoding session keep growing until the session completes.
type Manifest struct {
	Renditions []Rendition
}

// ParseMaster extracts the rendition ladder from a master playlist document.
// Only the attributes the player coordinator needs (RESOLUTION, BANDWIDTH) are
// interpreted; everything else is passed over.
func ParseMaster(document string) (*Manifest, error) {
	scanner := bufio.NewScanner(strings.NewReader(document))

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "#EXTM3U" {
		return nil, fmt.Errorf("not a master playlist: missing #EXTM3U header")
	}

	manifest := &Manifest{}
	var pending *Rendition

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			r := parseStreamInf(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))
			pending = &r
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		default:
			// A bare line following #EXT-X-STREAM-INF is the rendition's sub-playlist URI.
			if pending != nil {
				pending.URI = line
				manifest.Renditions = append(manifest.Renditions, *pending)
				pending = nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return manifest, nil
}

// parseStreamInf interprets the attribute list of a single #EXT-X-STREAM-INF tag.
func parseStreamInf(attrs string) Rendition {
	var r Rendition

	for _, attr := range splitAttributes(attrs) {
		name, value, found := strings.Cut(attr, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)

		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "BANDWIDTH":
			r.Bandwidth, _ = strconv.Atoi(value)
		case "RESOLUTION":
			w, h, found := strings.Cut(strings.ToLower(value), "x")
			if !found {
				continue
			}
			r.Width, _ = strconv.Atoi(w)
			r.Height, _ = strconv.Atoi(h)
		}
	}

	return r
}

// splitAttributes splits a playlist attribute list on commas, respecting quoted values.
func splitAttributes(s string) []string {
	var (
		parts  []string
		start  int
		quoted bool
	)

	for i, c := range s {
		switch c {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	return parts
}
