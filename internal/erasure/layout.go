// Package erasure knows how the coding tools name their files and simulates
// node failures by deleting shard files from the coding directory.
package erasure

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// MetadataSuffix names the directive file written next to the shards.
const MetadataSuffix = "_meta.txt"

// Layout is the naming contract of one input file inside the coding
// directory:
//
//	<stem>_k01<ext> ... <stem>_kK<ext>   data shards
//	<stem>_m01<ext> ... <stem>_mM<ext>   parity shards
//	<stem>_meta.txt                      metadata
//	<stem><decoded suffix>               reconstruction
type Layout struct {
	CodingDir      string
	Stem           string
	Ext            string
	MetadataMarker string
	DecodedSuffix  string
}

// NewLayout derives the layout from the input path. Only the base name
// matters; the tools strip directories before naming shards.
func NewLayout(codingDir, inputPath, metadataMarker, decodedSuffix string) Layout {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	return Layout{
		CodingDir:      codingDir,
		Stem:           strings.TrimSuffix(base, ext),
		Ext:            ext,
		MetadataMarker: metadataMarker,
		DecodedSuffix:  decodedSuffix,
	}
}

// ExcludedPrefix is the namespace the injector never erases from.
func (l Layout) ExcludedPrefix() string {
	return l.Stem + l.MetadataMarker
}

// DecodedPath is where a decoder writes the reconstructed input.
func (l Layout) DecodedPath() string {
	return filepath.Join(l.CodingDir, l.Stem+l.DecodedSuffix)
}

// MetadataPath is where an encoder writes its directive file.
func (l Layout) MetadataPath() string {
	return filepath.Join(l.CodingDir, l.Stem+MetadataSuffix)
}

// DataShardPath returns the path of data shard i (1-based) for k data shards.
func (l Layout) DataShardPath(i, k int) string {
	return filepath.Join(l.CodingDir, fmt.Sprintf("%s_k%0*d%s", l.Stem, indexWidth(k), i, l.Ext))
}

// ParityShardPath returns the path of parity shard i (1-based). The index is
// padded to the width of k, as the coding tools do.
func (l Layout) ParityShardPath(i, k int) string {
	return filepath.Join(l.CodingDir, fmt.Sprintf("%s_m%0*d%s", l.Stem, indexWidth(k), i, l.Ext))
}

func indexWidth(k int) int {
	return len(strconv.Itoa(k))
}
