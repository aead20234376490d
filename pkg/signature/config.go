package signature

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/laidout/impose/pkg/errors"
)

// tomlFile is the top-level shape of a signature TOML file.
type tomlFile struct {
	Signature Signature `toml:"signature"`
}

// LoadTOML decodes a signature from TOML. Unset keys keep the defaults from
// [New].
//
//	[signature]
//	name = "quarto"
//	paper_width = 17
//	paper_height = 11
//
//	[[signature.folds]]
//	direction = "r"
//	index = 1
func LoadTOML(data []byte) (Signature, error) {
	file := tomlFile{Signature: New()}
	if err := toml.Unmarshal(data, &file); err != nil {
		return Signature{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse signature toml")
	}
	s := file.Signature
	s.SetFolds(s.Folds)
	return s, nil
}

// EncodeTOML writes s in the layout read by LoadTOML.
func EncodeTOML(s Signature) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tomlFile{Signature: s}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode signature toml")
	}
	return buf.Bytes(), nil
}

// Load reads a signature file. Files ending in ".toml" are decoded as TOML;
// anything else is read as the attribute format.
func Load(path string) (Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Signature{}, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOML(data)
	}
	return Parse(bytes.NewReader(data))
}
