package plex

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tessro/plexwatch/internal/core"
	perrors "github.com/tessro/plexwatch/internal/errors"
)

// VariousArtists is the placeholder Plex uses for compilation albums.
const VariousArtists = "Various Artists"

// DocumentError reports a sessions document that could not be decoded.
// Entry is the zero-based index of the offending Track, or -1 for
// document-level failures.
type DocumentError struct {
	Entry     int
	Attribute string
	Err       error
}

func (e *DocumentError) Error() string {
	switch {
	case e.Entry < 0:
		return fmt.Sprintf("%s: %v", perrors.ErrMalformedDocument, e.Err)
	case e.Attribute != "":
		return fmt.Sprintf("%s: track %d: %s: %v", perrors.ErrMalformedDocument, e.Entry, e.Attribute, e.Err)
	default:
		return fmt.Sprintf("%s: track %d: %v", perrors.ErrMalformedDocument, e.Entry, e.Err)
	}
}

// Is matches ErrMalformedDocument.
func (e *DocumentError) Is(target error) bool {
	return target == perrors.ErrMalformedDocument
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// trackElement mirrors a <Track> entry of /status/sessions.
type trackElement struct {
	Title            *string         `xml:"title,attr"`
	ParentTitle      *string         `xml:"parentTitle,attr"`
	GrandparentTitle *string         `xml:"grandparentTitle,attr"`
	OriginalTitle    *string         `xml:"originalTitle,attr"`
	ViewOffset       *string         `xml:"viewOffset,attr"`
	Players          []playerElement `xml:"Player"`
	Media            []mediaElement  `xml:"Media"`
}

type playerElement struct {
	Title *string `xml:"title,attr"`
	State *string `xml:"state,attr"`
}

type mediaElement struct {
	Duration *string `xml:"duration,attr"`
	Thumb    *string `xml:"thumb"`
}

// ParseSessions decodes a sessions document into a snapshot.
func ParseSessions(data []byte) (*core.Snapshot, error) {
	return parseSessions(data, time.Now())
}

func parseSessions(data []byte, now time.Time) (*core.Snapshot, error) {
	snapshot := core.NewSnapshot(now)

	dec := xml.NewDecoder(bytes.NewReader(data))
	sawRoot := false
	entry := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DocumentError{Entry: -1, Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true

		if start.Name.Local != "Track" {
			continue
		}

		var el trackElement
		if err := dec.DecodeElement(&el, &start); err != nil {
			return nil, &DocumentError{Entry: -1, Err: err}
		}
		if err := addTrack(snapshot, &el, entry); err != nil {
			return nil, err
		}
		entry++
	}

	if !sawRoot {
		return nil, &DocumentError{Entry: -1, Err: errors.New("no root element")}
	}

	return snapshot, nil
}

// addTrack folds one Track entry into the snapshot.
// Entries without a Player are skipped.
func addTrack(snapshot *core.Snapshot, el *trackElement, entry int) error {
	if len(el.Players) == 0 {
		return nil
	}
	player := el.Players[0]

	device := snapshot.Ensure(
		valueOr(player.Title, core.UnknownDevice),
		valueOr(player.State, core.UnknownStatus),
	)

	if len(el.Media) == 0 {
		return nil
	}
	media := el.Media[0]

	viewOffset, err := parseMillis(el.ViewOffset)
	if err != nil {
		return &DocumentError{Entry: entry, Attribute: "viewOffset", Err: err}
	}
	duration, err := parseMillis(media.Duration)
	if err != nil {
		return &DocumentError{Entry: entry, Attribute: "duration", Err: err}
	}

	artist := valueOr(el.GrandparentTitle, core.UnknownArtist)
	if artist == VariousArtists {
		artist = valueOr(el.OriginalTitle, core.UnknownArtist)
	}

	thumbnail := ""
	if media.Thumb != nil {
		thumbnail = strings.TrimSpace(*media.Thumb)
	}

	device.Tracks = append(device.Tracks, core.Track{
		Title:     valueOr(el.Title, core.UnknownTrack),
		Artist:    artist,
		Album:     valueOr(el.ParentTitle, core.UnknownAlbum),
		Duration:  duration,
		Progress:  core.ProgressPercent(viewOffset, duration),
		Thumbnail: thumbnail,
	})
	return nil
}

// parseMillis parses a non-negative millisecond attribute. Absent means 0.
func parseMillis(v *string) (int64, error) {
	if v == nil {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", *v)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value: %d", n)
	}
	return n, nil
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
