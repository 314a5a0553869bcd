package data

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const sentencesSeparator = "|"

type (
	// Line is one word pair of an import file: word:translation[:sentence1|sentence2...]
	Line struct {
		Number      int
		SourceWord  string
		Translation string
		Sentences   []string
	}

	ParsingError struct {
		InvalidLines []int
	}
)

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing error: invalidLines=%v", e.InvalidLines)
}

// Parse sends valid lines to out and closes it when done. Invalid lines are skipped and reported as a *ParsingError.
func Parse(ctx context.Context, in io.ReadCloser, out chan<- Line) error {
	defer close(out)
	defer in.Close()

	scanner := bufio.NewScanner(in)
	invalidLines := make([]int, 0, 10) //nolint:mnd // 10 is the expected capacity
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line, ok := parseLine(raw)
		if !ok {
			invalidLines = append(invalidLines, lineNum)
			continue
		}
		line.Number = lineNum

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- line: // continue
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan file: %w", err)
	}
	if len(invalidLines) > 0 {
		return &ParsingError{InvalidLines: invalidLines}
	}

	return nil
}

func parseLine(raw string) (Line, bool) {
	parts := strings.SplitN(raw, ":", 3) //nolint:mnd // word, translation and sentences
	if len(parts) < 2 {                  //nolint:mnd // word and translation are required
		return Line{}, false
	}

	line := Line{
		SourceWord:  strings.TrimSpace(parts[0]),
		Translation: strings.TrimSpace(parts[1]),
		Sentences:   []string{},
	}
	if line.SourceWord == "" || line.Translation == "" {
		return Line{}, false
	}

	if len(parts) == 3 { //nolint:mnd // 3 is the expected length
		for _, s := range strings.Split(parts[2], sentencesSeparator) {
			if s = strings.TrimSpace(s); s != "" {
				line.Sentences = append(line.Sentences, s)
			}
		}
	}

	return line, true
}
