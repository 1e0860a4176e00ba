package keys

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	hdHardenedOffset = uint32(0x80000000)
	slip10Curve      = "ed25519 seed"
	solanaCoinType   = 501
)

// MaxIndex is the largest child index a path element can carry before it
// collides with the hardened offset.
const MaxIndex = hdHardenedOffset - 1

// Path is a BIP32 style derivation path. ed25519 only supports hardened
// indexes, so every element carries the hardened offset.
type Path []uint32

// ParsePath parses paths like m/44'/501'/0'/0'.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid hd path %q: must start with m", s)
	}
	path := make(Path, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if !strings.HasSuffix(p, "'") {
			return nil, fmt.Errorf("invalid hd path %q: index %q is not hardened", s, p)
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(p, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("invalid hd path %q: %w", s, err)
		}
		path = append(path, uint32(n)+hdHardenedOffset)
	}
	return path, nil
}

func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, i := range p {
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(i-hdHardenedOffset), 10))
		b.WriteString("'")
	}
	return b.String()
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(b []byte) error {
	parsed, err := ParsePath(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func hardened(i uint32) uint32 {
	return i&^hdHardenedOffset | hdHardenedOffset
}

func accountPath(extra ...uint32) Path {
	p := Path{hardened(44), hardened(solanaCoinType), hardened(0), hardened(0)}
	for _, e := range extra {
		p = append(p, hardened(e))
	}
	return p
}

// PrimaryPath is the owner's deposit account.
func PrimaryPath() Path {
	return accountPath()
}

// BucketPath is the denomination bucket holding bills of denomKin Kin.
func BucketPath(denomKin uint64) Path {
	return accountPath(0, uint32(denomKin))
}

// IncomingPath is the temporary receiving account at index.
func IncomingPath(index uint32) Path {
	return accountPath(index, 2)
}

// OutgoingPath is the temporary sending account at index.
func OutgoingPath(index uint32) Path {
	return accountPath(index, 3)
}

// RelationshipPath is the per-domain account. The domain hash is split into
// two 31 bit words so both fit a hardened index.
func RelationshipPath(domain string) Path {
	h := sha256.Sum256([]byte(strings.ToLower(domain)))
	h0 := binary.BigEndian.Uint32(h[0:4]) &^ hdHardenedOffset
	h1 := binary.BigEndian.Uint32(h[4:8]) &^ hdHardenedOffset
	return Path{hardened(44), hardened(solanaCoinType), hardened(65535), hardened(0), hardened(h0), hardened(h1)}
}

// deriveFromSeed walks path with SLIP-0010 ed25519 derivation.
func deriveFromSeed(seed []byte, path Path) (KeyPair, error) {
	key, chainCode := slip10Master(seed)
	for _, index := range path {
		if index < hdHardenedOffset {
			return KeyPair{}, fmt.Errorf("index %d is not hardened", index)
		}
		key, chainCode = slip10Child(key, chainCode, index)
	}
	return KeyPairFromSeed(key)
}

func slip10Master(seed []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

func slip10Child(parentKey, parentChainCode []byte, index uint32) ([]byte, []byte) {
	data := make([]byte, 37)
	copy(data[1:33], parentKey)
	binary.BigEndian.PutUint32(data[33:], index)

	mac := hmac.New(sha512.New, parentChainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
