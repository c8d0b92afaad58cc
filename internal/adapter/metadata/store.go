package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/thushan/ollafree/data"
	"github.com/thushan/ollafree/internal/core/domain"
	"github.com/thushan/ollafree/internal/logger"
)

const (
	nestedModelsPath = "props.pageProps.models"
	nestedTypePath   = "props.pageProps.modelType"
	flatModelsPath   = "models"

	maxParseWorkers = 8
)

// Store holds every category loaded from a metadata directory. It is built
// once and never mutated, so it is safe for concurrent readers.
type Store struct {
	categories map[string]domain.Category
	families   domain.FamilyIndex
	order      []string
}

type parsedFile struct {
	category string
	records  []domain.ModelRecord
	matched  bool
}

// LoadBundled loads the metadata embedded in the binary.
func LoadBundled(log logger.StyledLogger) (*Store, error) {
	return Load(data.FS, data.Dir, log)
}

// LoadDir loads metadata from an on-disk directory.
func LoadDir(dir string, log logger.StyledLogger) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("metadata dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("metadata dir %s: not a directory", dir)
	}
	return Load(os.DirFS(dir), ".", log)
}

// Load reads every *.json file in dir. An unreadable directory or a file that
// is not valid JSON fails the whole load; a valid file with neither known
// shape is skipped.
func Load(fsys fs.FS, dir string, log logger.StyledLogger) (*Store, error) {
	if log == nil {
		log = logger.NewDiscard()
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read metadata dir %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, e.Name())
	}

	// fs.ReadDir returns entries sorted by name, results keep that order
	results := make([]parsedFile, len(files))

	var eg errgroup.Group
	eg.SetLimit(maxParseWorkers)
	for i, name := range files {
		eg.Go(func() error {
			b, err := fs.ReadFile(fsys, path.Join(dir, name))
			if err != nil {
				return &domain.MetadataError{File: name, Err: err}
			}
			parsed, err := parseFile(name, b)
			if err != nil {
				return err
			}
			results[i] = parsed
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s := &Store{
		categories: make(map[string]domain.Category, len(results)),
		families:   make(domain.FamilyIndex),
	}

	total := 0
	for i, r := range results {
		if !r.matched {
			log.Debug("Skipping metadata file without models", "file", files[i])
			continue
		}
		if _, exists := s.categories[r.category]; exists {
			log.Warn("Duplicate metadata category, later file wins", "category", r.category, "file", files[i])
			s.removeFromOrder(r.category)
		}
		s.categories[r.category] = domain.Category{Name: r.category, Records: r.records}
		s.order = append(s.order, r.category)
	}

	for _, category := range s.order {
		for _, rec := range s.categories[category].Records {
			s.families.Add(category, rec.Family, rec.Name)
			total++
		}
	}

	log.InfoWithCount("Loaded model metadata", len(s.order), "records", total)
	return s, nil
}

func (s *Store) removeFromOrder(category string) {
	for i, c := range s.order {
		if c == category {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func parseFile(name string, b []byte) (parsedFile, error) {
	if !gjson.ValidBytes(b) {
		return parsedFile{}, &domain.MetadataError{File: name, Err: errors.New("invalid JSON")}
	}

	doc := gjson.ParseBytes(b)
	category := strings.TrimSuffix(name, path.Ext(name))
	if mt := doc.Get(nestedTypePath); mt.Type == gjson.String && mt.Str != "" {
		category = mt.Str
	}

	models := doc.Get(nestedModelsPath)
	if !models.Exists() {
		models = doc.Get(flatModelsPath)
	}
	if !models.Exists() {
		return parsedFile{category: category}, nil
	}
	if !models.IsArray() {
		return parsedFile{}, &domain.MetadataError{File: name, Err: fmt.Errorf("models is %s, want array", models.Type)}
	}

	var records []domain.ModelRecord
	models.ForEach(func(_, item gjson.Result) bool {
		if rec, ok := parseRecord(category, item); ok {
			records = append(records, rec)
		}
		return true
	})

	return parsedFile{category: category, records: records, matched: true}, nil
}
