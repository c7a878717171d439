package tool

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// NewEntryID returns a fresh opaque id for a manifest entry. Entries are
// only ever addressed by this id, never by a client-supplied path.
func NewEntryID() string {
	return uuid.NewString()
}

// GenerateFingerprint returns a random 32-character device fingerprint used
// in multicast announcements to filter out our own packets.
func GenerateFingerprint() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

var aliasAdjectives = []string{
	"Amber", "Bold", "Breezy", "Calm", "Cheery", "Clever", "Cosmic",
	"Crisp", "Dapper", "Eager", "Gentle", "Golden", "Happy", "Keen",
	"Lively", "Lucky", "Mellow", "Nimble", "Quiet", "Rapid", "Silver",
	"Sly", "Snappy", "Sturdy", "Sunny", "Swift", "Witty", "Zesty",
}

var aliasBirds = []string{
	"Albatross", "Crane", "Falcon", "Finch", "Heron", "Kestrel",
	"Kingfisher", "Lark", "Magpie", "Osprey", "Owl", "Pelican",
	"Plover", "Puffin", "Raven", "Robin", "Sparrow", "Starling",
	"Swallow", "Swift", "Tern", "Wren",
}

// NameGenerator produces a readable default alias for this device.
func NameGenerator() string {
	adjective := aliasAdjectives[rand.Intn(len(aliasAdjectives))]
	bird := aliasBirds[rand.Intn(len(aliasBirds))]
	return fmt.Sprintf("%s %s", adjective, bird)
}
