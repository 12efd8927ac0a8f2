package export

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/models"
)

// Keep header order EXACT: downstream tools read columns by position.
var Header = []string{
	"title",
	"company",
	"tags",
	"link",
	"location",
	"field",
	"experience",
	"source",
}

const ScoreColumn = "relevance_score"

var ErrMissingTitleColumn = stderrors.New("csv has no title column")

func columnValue(p models.NormalizedPosting, column string) string {
	switch column {
	case "title":
		return p.Title
	case "company":
		return p.Company
	case "tags":
		return p.Tags
	case "link":
		return p.Link
	case "location":
		return p.Location
	case "field":
		return p.Field
	case "experience":
		return p.Experience
	case "source":
		return p.Source
	}
	return ""
}

func setColumn(p *models.NormalizedPosting, column, value string) {
	switch column {
	case "title":
		p.Title = value
	case "company":
		p.Company = value
	case "tags":
		p.Tags = value
	case "link":
		p.Link = value
	case "location":
		p.Location = value
	case "field":
		p.Field = value
	case "experience":
		p.Experience = value
	case "source":
		p.Source = value
	}
}

func known(column string) bool {
	for _, h := range Header {
		if h == column {
			return true
		}
	}
	return false
}

// Columns validates a caller-chosen column subset. Empty means the full header.
func Columns(columns ...string) ([]string, error) {
	if len(columns) == 0 {
		return Header, nil
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		c = strings.ToLower(strings.TrimSpace(c))
		if !known(c) {
			return nil, errors.InvalidInput(fmt.Sprintf("unknown column %q", c), nil)
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteCSV writes one row per posting in the given order.
func WriteCSV(w io.Writer, postings []models.NormalizedPosting, columns ...string) error {
	cols, err := Columns(columns...)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, p := range postings {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = columnValue(p, c)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRankedCSV writes ranked postings with relevance_score as the last column.
func WriteRankedCSV(w io.Writer, ranked []models.RankedPosting, columns ...string) error {
	cols, err := Columns(columns...)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, cols...), ScoreColumn)); err != nil {
		return err
	}
	for _, r := range ranked {
		row := make([]string, len(cols)+1)
		for i, c := range cols {
			row[i] = columnValue(r.NormalizedPosting, c)
		}
		row[len(cols)] = FormatScore(r.RelevanceScore)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 6, 64)
}

// ReadCSV reads postings written by WriteCSV or WriteRankedCSV. Any subset of
// columns is accepted as long as title is present; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]models.NormalizedPosting, error) {
	ranked, err := ReadRankedCSV(r)
	if err != nil {
		return nil, err
	}
	out := make([]models.NormalizedPosting, len(ranked))
	for i, rp := range ranked {
		out[i] = rp.NormalizedPosting
	}
	return out, nil
}

// ReadRankedCSV is ReadCSV keeping relevance_score when the column exists.
func ReadRankedCSV(r io.Reader) ([]models.RankedPosting, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.InvalidInput("reading csv", ErrMissingTitleColumn)
	}
	if err != nil {
		return nil, errors.InvalidInput("reading csv header", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := index["title"]; !ok {
		return nil, errors.InvalidInput("reading csv", ErrMissingTitleColumn)
	}
	scoreIdx, hasScore := index[ScoreColumn]

	var out []models.RankedPosting
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("reading csv line %d", line), err)
		}

		var rp models.RankedPosting
		for _, c := range Header {
			if i, ok := index[c]; ok && i < len(record) {
				setColumn(&rp.NormalizedPosting, c, record[i])
			}
		}
		if hasScore && scoreIdx < len(record) && record[scoreIdx] != "" {
			score, err := strconv.ParseFloat(record[scoreIdx], 64)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("bad relevance_score on line %d", line), err)
			}
			rp.RelevanceScore = score
		}
		out = append(out, rp)
	}
	return out, nil
}

// WriteFile writes postings to path, creating parent directories. The previous
// export stays in place until the new one is renamed over it.
func WriteFile(path string, postings []models.NormalizedPosting, columns ...string) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteCSV(w, postings, columns...)
	})
}

func WriteRankedFile(path string, ranked []models.RankedPosting, columns ...string) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteRankedCSV(w, ranked, columns...)
	})
}

func ReadFile(path string) ([]models.NormalizedPosting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, notFoundOr(path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadRankedFile(path string) ([]models.RankedPosting, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, notFoundOr(path, err)
	}
	defer f.Close()
	return ReadRankedCSV(f)
}

func notFoundOr(path string, err error) error {
	if stderrors.Is(err, os.ErrNotExist) {
		return errors.NotFound("no export at "+path, err)
	}
	return errors.Internal("opening "+path, err)
}

func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Internal("creating export dir", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Internal("creating temp file", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Internal("closing temp file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Internal("replacing "+path, err)
	}
	return nil
}
