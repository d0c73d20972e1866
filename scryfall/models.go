package scryfall

import (
	"errors"
	"fmt"
)

// ErrProviderFailure wraps every error returned by Client.Resolve.
var ErrProviderFailure = errors.New("card provider failure")

// ErrNoImage is returned when a card has no usable image.
var ErrNoImage = errors.New("card has no image")

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small  string `json:"small,omitempty"`
	Normal string `json:"normal,omitempty"`
	Large  string `json:"large,omitempty"`
	PNG    string `json:"png,omitempty"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name      string     `json:"name"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// Card is the subset of a Scryfall card object used by the table.
type Card struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// ImageURL returns the PNG image of the card, falling back to the first
// face for double-faced cards.
func (c *Card) ImageURL() string {
	if c.ImageURIs != nil && c.ImageURIs.PNG != "" {
		return c.ImageURIs.PNG
	}
	if len(c.CardFaces) > 0 && c.CardFaces[0].ImageURIs != nil {
		return c.CardFaces[0].ImageURIs.PNG
	}
	return ""
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 from the API, e.g. an unmatched fuzzy name.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
