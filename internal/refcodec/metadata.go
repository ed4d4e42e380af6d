package refcodec

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Metadata is the directive file written next to the shards:
//
//	<input path>
//	<original size>
//	<k> <m> <w> <packetsize> <buffersize>
//	<technique>
//	<technique code>
//	<readins>
type Metadata struct {
	Input   string
	Size    int64
	Params  Params
	Readins int
}

// techniqueCode is the native tools' numbering of coding techniques.
func techniqueCode(name string) int {
	switch name {
	case "reed_sol_van":
		return 0
	case "reed_sol_r6_op":
		return 1
	case "cauchy_orig":
		return 2
	case "cauchy_good":
		return 3
	case "liberation":
		return 4
	case "blaum_roth":
		return 5
	case "liber8tion":
		return 6
	default:
		return 7
	}
}

func writeMetadata(path string, md Metadata) error {
	p := md.Params
	content := fmt.Sprintf("%s\n%d\n%d %d %d %d %d\n%s\n%d\n%d\n",
		md.Input, md.Size,
		p.K, p.M, p.FieldBits, p.PacketSize, p.BufferSize,
		p.Technique, techniqueCode(p.Technique), md.Readins)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// ReadMetadata parses the directive file at path.
func ReadMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("no metadata file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	if len(lines) < 6 {
		return Metadata{}, fmt.Errorf("%w: %d line(s)", ErrBadMetadata, len(lines))
	}

	md := Metadata{Input: lines[0]}
	if md.Size, err = strconv.ParseInt(lines[1], 10, 64); err != nil || md.Size < 0 {
		return Metadata{}, fmt.Errorf("%w: original size %q is not valid", ErrBadMetadata, lines[1])
	}

	fields := strings.Fields(lines[2])
	if len(fields) != 5 {
		return Metadata{}, fmt.Errorf("%w: parameters %q are not correct", ErrBadMetadata, lines[2])
	}
	nums := make([]int, len(fields))
	for i, tok := range fields {
		if nums[i], err = strconv.Atoi(tok); err != nil {
			return Metadata{}, fmt.Errorf("%w: parameter %q: %v", ErrBadMetadata, tok, err)
		}
	}
	md.Params = Params{
		K:          nums[0],
		M:          nums[1],
		FieldBits:  nums[2],
		PacketSize: nums[3],
		BufferSize: nums[4],
		Technique:  lines[3],
	}
	if md.Readins, err = strconv.Atoi(lines[5]); err != nil || md.Readins < 0 {
		return Metadata{}, fmt.Errorf("%w: readins %q", ErrBadMetadata, lines[5])
	}
	return md, md.Params.Validate()
}
