package bitcoin

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-graph/internal/graph/model"
)

const readBufferSize = 1 << 20

var blockFilePattern = regexp.MustCompile(`^blk(\d{5})\.dat$`)

// BlockFile is one sequentially numbered ledger file.
type BlockFile struct {
	Number int
	Path   string
}

// ListBlockFiles returns block files in dir with startFile <= number < endFile, in
// ascending order. endFile <= 0 leaves the range open.
func ListBlockFiles(dir string, startFile, endFile int) ([]BlockFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read blocks dir %s: %w", dir, err)
	}

	files := make([]BlockFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := blockFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if number < startFile || (endFile > 0 && number >= endFile) {
			continue
		}
		files = append(files, BlockFile{Number: number, Path: filepath.Join(dir, entry.Name())})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no block files in %s for range [%d, %d): %w", dir, startFile, endFile, ErrMissingFile)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Number < files[j].Number })
	return files, nil
}

// FrameReader extracts magic-delimited, length-prefixed block bodies from one file.
type FrameReader struct {
	r          *bufio.Reader
	closer     io.Closer
	magic      [4]byte
	fileNumber int
	offset     int64
}

// NewFrameReader reads frames from r, tagging them with fileNumber.
func NewFrameReader(r io.Reader, fileNumber int, magic [4]byte) *FrameReader {
	return &FrameReader{
		r:          bufio.NewReaderSize(r, readBufferSize),
		magic:      magic,
		fileNumber: fileNumber,
	}
}

// OpenBlockFile opens f for frame reading. The caller must Close the reader.
func OpenBlockFile(f BlockFile, magic [4]byte) (*FrameReader, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open block file %s: %w", f.Path, err)
	}
	fr := NewFrameReader(file, f.Number, magic)
	fr.closer = file
	return fr, nil
}

// Next returns the next block body, or io.EOF once no further magic is found.
// Bytes that do not start a magic separator are skipped.
func (f *FrameReader) Next() (model.RawBlock, error) {
	var (
		window [4]byte
		filled int
	)
	for filled < 4 || window != f.magic {
		b, err := f.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return model.RawBlock{}, io.EOF
			}
			return model.RawBlock{}, fmt.Errorf("read block file %d at offset %d: %w", f.fileNumber, f.offset, err)
		}
		f.offset++
		if filled < 4 {
			window[filled] = b
			filled++
			continue
		}
		copy(window[:], window[1:])
		window[3] = b
	}

	var sizeBuf [4]byte
	if _, err := io.ReadFull(f.r, sizeBuf[:]); err != nil {
		return model.RawBlock{}, f.truncated("frame length", err)
	}
	f.offset += 4

	size := binary.LittleEndian.Uint32(sizeBuf[:])
	if size > wire.MaxBlockPayload {
		return model.RawBlock{}, fmt.Errorf("file %d offset %d: frame length %d exceeds %d: %w",
			f.fileNumber, f.offset, size, wire.MaxBlockPayload, ErrMalformedBlock)
	}

	start := f.offset
	body := make([]byte, size)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return model.RawBlock{}, f.truncated("frame body", err)
	}
	f.offset += int64(size)

	return model.RawBlock{FileNumber: f.fileNumber, Offset: start, Bytes: body}, nil
}

func (f *FrameReader) truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("file %d offset %d: %s: %w", f.fileNumber, f.offset, what, ErrTruncatedData)
	}
	return fmt.Errorf("file %d offset %d: read %s: %w", f.fileNumber, f.offset, what, err)
}

// FileNumber returns the sequence number of the file being read.
func (f *FrameReader) FileNumber() int {
	return f.fileNumber
}

// Close releases the underlying file, if any.
func (f *FrameReader) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

// BlockFileScanner yields raw blocks across a range of block files in file order.
// It is lazy and cannot be restarted.
type BlockFileScanner struct {
	files   []BlockFile
	magic   [4]byte
	next    int
	current *FrameReader
}

// NewBlockFileScanner lists the files of dir in [startFile, endFile). It fails with
// ErrMissingFile before any reading if the range is empty.
func NewBlockFileScanner(dir string, magic [4]byte, startFile, endFile int) (*BlockFileScanner, error) {
	files, err := ListBlockFiles(dir, startFile, endFile)
	if err != nil {
		return nil, err
	}
	return &BlockFileScanner{files: files, magic: magic}, nil
}

// Files returns the files the scanner will visit.
func (s *BlockFileScanner) Files() []BlockFile {
	return s.files
}

// Next returns the next raw block, or io.EOF after the last file.
func (s *BlockFileScanner) Next() (model.RawBlock, error) {
	for {
		if s.current == nil {
			if s.next >= len(s.files) {
				return model.RawBlock{}, io.EOF
			}
			fr, err := OpenBlockFile(s.files[s.next], s.magic)
			if err != nil {
				return model.RawBlock{}, err
			}
			s.next++
			s.current = fr
		}

		raw, err := s.current.Next()
		if err == nil {
			return raw, nil
		}
		closeErr := s.current.Close()
		s.current = nil
		if !errors.Is(err, io.EOF) {
			return model.RawBlock{}, err
		}
		if closeErr != nil {
			return model.RawBlock{}, fmt.Errorf("close block file: %w", closeErr)
		}
	}
}

// Close releases the file currently open, if any.
func (s *BlockFileScanner) Close() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
