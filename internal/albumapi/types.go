package albumapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Album mirrors an album record served by the catalog API.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

var errMissingID = errors.New("album record has neither id nor _id")

// UnmarshalJSON decodes an album record, resolving the identifier from "id"
// or, when absent, "_id". Keys match exactly; "ID" or "Title" are ignored.
func (a *Album) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	id, err := resolveID(fields["id"], fields["_id"])
	if err != nil {
		return err
	}
	out := Album{ID: id}
	for key, dest := range map[string]*string{
		"title":       &out.Title,
		"artist":      &out.Artist,
		"description": &out.Description,
		"image":       &out.Image,
	} {
		if err := decodeString(fields[key], dest); err != nil {
			return fmt.Errorf("album %s: %w", key, err)
		}
	}
	*a = out
	return nil
}

// decodeString leaves dest empty for an absent or null value.
func decodeString(raw json.RawMessage, dest *string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// resolveID returns the first identifier present among keys.
func resolveID(keys ...json.RawMessage) (string, error) {
	for _, raw := range keys {
		id, ok, err := decodeID(raw)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
	}
	return "", errMissingID
}

func decodeID(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true, nil
	}
	return "", false, fmt.Errorf("album id must be a string or number, got %s", truncateRaw(raw))
}

func truncateRaw(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 32 {
		return s[:29] + "..."
	}
	return s
}
