package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"svw.info/blockpuzzle/internal/domain"
)

// FS stores one JSON file per snapshot under dir.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

var errBadID = errors.New("invalid snapshot: missing or unsafe ID")

func (s *FS) pathFor(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", errBadID
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FS) Save(ctx context.Context, p *domain.Snapshot) error {
	if p == nil {
		return errBadID
	}
	target, err := s.pathFor(p.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	path, err := s.pathFor(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out domain.Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every readable snapshot, newest first.
func (s *FS) List(ctx context.Context) ([]domain.SnapshotMeta, error) {
	type m struct {
		ID        string            `json:"id"`
		Name      string            `json:"name,omitempty"`
		Pieces    []json.RawMessage `json:"pieces,omitempty"`
		CreatedAt int64             `json:"createdAt"`
	}

	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []domain.SnapshotMeta
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("snapshot-unreadable")
			continue
		}
		var mm m
		if err := json.Unmarshal(data, &mm); err != nil || mm.ID == "" {
			log.Warn().Err(err).Str("file", e.Name()).Msg("snapshot-skipped")
			continue
		}
		out = append(out, domain.SnapshotMeta{
			ID:        mm.ID,
			Name:      mm.Name,
			Pieces:    len(mm.Pieces),
			CreatedAt: mm.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}
