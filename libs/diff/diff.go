package diff

import (
	"reflect"

	odiff "github.com/r3labs/diff/v3"

	"codepay/keys"
)

func GetCustomDiffer() *odiff.Differ {
	ret, err := odiff.NewDiffer(odiff.CustomValueDiffers(&PublicKeyComparer{}))
	if err != nil {
		panic(err)
	}
	return ret
}

// PublicKeyComparer treats a keys.PublicKey as a single value instead of 32
// separate bytes.
type PublicKeyComparer struct{}

var (
	publicKeyType = reflect.TypeOf(keys.PublicKey{})
)

func (c PublicKeyComparer) Match(a, b reflect.Value) bool {
	aok := a.Kind() == publicKeyType.Kind() && a.Type() == publicKeyType
	bok := b.Kind() == publicKeyType.Kind() && b.Type() == publicKeyType
	return (aok && bok) || (a.Kind() == reflect.Invalid && bok) || (b.Kind() == reflect.Invalid && aok)
}

func (c PublicKeyComparer) Diff(_ odiff.DiffType, _ odiff.DiffFunc, cl *odiff.Changelog, path []string, a reflect.Value, b reflect.Value, _ interface{}) error {
	valA := reflect.Indirect(a)
	valB := reflect.Indirect(b)

	if !valA.IsValid() || !valB.IsValid() {
		switch {
		case valA.IsValid():
			cl.Add(odiff.DELETE, path, valA.Interface().(keys.PublicKey).String(), nil)
		case valB.IsValid():
			cl.Add(odiff.CREATE, path, nil, valB.Interface().(keys.PublicKey).String())
		}
		return nil
	}

	k1 := valA.Interface().(keys.PublicKey)
	k2 := valB.Interface().(keys.PublicKey)
	if k1 != k2 {
		cl.Add(odiff.UPDATE, path, k1.String(), k2.String())
	}
	return nil
}

// InsertParentDiffer is a no-op: a public key is a leaf.
func (c PublicKeyComparer) InsertParentDiffer(_ func(path []string, a reflect.Value, b reflect.Value, p interface{}) error) {
}
