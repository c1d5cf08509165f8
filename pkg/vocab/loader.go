package vocab

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// LoadFile reads a text or binary vocabulary into reg and returns the number
// of commands read.
func LoadFile(filename string, reg *Registry) (int, error) {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open vocabulary %s: %w", filename, err)
	}
	defer file.Close()

	var count int
	switch format {
	case FormatBinary:
		count, err = ReadBinary(bufio.NewReader(file), reg)
	default:
		count, err = ReadText(file, reg)
	}
	if err != nil {
		return count, fmt.Errorf("failed to load vocabulary %s: %w", filename, err)
	}

	log.Debugf("Loaded %d commands from %s (%s)", count, filename, format)
	return count, nil
}

// LoadDir loads every .txt and .bin file in dir, in lexical order.
func LoadDir(dir string, reg *Registry) (int, error) {
	files, err := vocabFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no vocabulary files found in %s", dir)
	}

	total := 0
	for _, file := range files {
		n, err := LoadFile(file, reg)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// LoadPath loads path as a directory or a single file.
func LoadPath(path string, reg *Registry) (int, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat vocabulary path %s: %w", path, err)
	}
	if stat.IsDir() {
		return LoadDir(path, reg)
	}
	return LoadFile(path, reg)
}

func vocabFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.txt", "*.bin"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan for vocabulary files: %w", err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	return files, nil
}

// ReadText reads the line based format. Blank lines and lines starting with
// '#' are skipped; a name followed by more than one token is skipped with a warning.
func ReadText(r io.Reader, reg *Registry) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		namePart, desc, _ := strings.Cut(line, "#")
		fields := strings.Fields(namePart)
		if len(fields) != 1 {
			log.Warnf("Skipping line %d: expected a single command name, got %q", lineNo, namePart)
			continue
		}

		reg.Add(Command{Name: fields[0], Description: strings.TrimSpace(desc)})
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read line %d: %w", lineNo+1, err)
	}
	return count, nil
}

// ReadBinary reads the length-prefixed format.
func ReadBinary(r io.Reader, reg *Registry) (int, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	if total < 0 || total > MaxEntries {
		return 0, fmt.Errorf("invalid entry count %d", total)
	}

	count := 0
	for count < int(total) {
		name, err := readField(r)
		if err != nil {
			return count, fmt.Errorf("failed to read name of entry %d: %w", count, err)
		}
		desc, err := readField(r)
		if err != nil {
			return count, fmt.Errorf("failed to read description of %s: %w", name, err)
		}

		reg.Add(Command{Name: name, Description: desc})
		count++
	}
	return count, nil
}

func readField(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// SaveBinary writes reg to filename in the binary format.
func SaveBinary(filename string, reg *Registry) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	writer := bufio.NewWriter(file)
	if err := WriteBinary(writer, reg); err != nil {
		return err
	}
	return writer.Flush()
}

// WriteBinary encodes every command of reg.
func WriteBinary(w io.Writer, reg *Registry) error {
	cmds := reg.Commands()
	if err := binary.Write(w, binary.LittleEndian, int32(len(cmds))); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, cmd := range cmds {
		if err := writeField(w, cmd.Name); err != nil {
			return fmt.Errorf("failed to write command %s: %w", cmd.Name, err)
		}
		if err := writeField(w, cmd.Description); err != nil {
			return fmt.Errorf("failed to write description of %s: %w", cmd.Name, err)
		}
	}
	return nil
}

func writeField(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("field of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
