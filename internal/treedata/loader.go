// Package treedata loads the exported passive-tree data file into the
// immutable domain graph. Parsing is tolerant of extra fields in the export
// but strict about structure: missing sections, dangling edges and
// unresolvable class starts fail fast at load time.
package treedata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/internal/logging"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// FileLoader reads a tree export from disk. It implements ports.TreeLoader.
type FileLoader struct {
	path   string
	logger *slog.Logger
}

// NewFileLoader creates a loader for the given export file.
func NewFileLoader(path string, logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FileLoader{path: path, logger: logger}
}

// Load reads and parses the export file.
func (l *FileLoader) Load(ctx context.Context) (*domain.PassiveTree, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read tree data: %w", err)
	}
	tree, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}
	l.logger.Info("passive tree loaded",
		"path", l.path,
		"nodes", tree.NodeCount(),
		"edges", tree.EdgeCount(),
		"classes", len(tree.Classes()),
	)
	return tree, nil
}

// nodeDTO is the raw per-node shape in the export.
type nodeDTO struct {
	Name  string   `mapstructure:"name"`
	Kind  string   `mapstructure:"kind"`
	Stats []string `mapstructure:"stats"`
	X     float64  `mapstructure:"x"`
	Y     float64  `mapstructure:"y"`
}

// Parse converts a tree export document into a validated PassiveTree.
//
// Expected shape:
//
//	{
//	  "nodes":        {"<id>": {"name", "kind", "stats", "x", "y"}, ...},
//	  "edges":        [[a, b], ...],
//	  "class_starts": {"<class>": <id>, ...}
//	}
func Parse(data []byte) (*domain.PassiveTree, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("tree data is not valid JSON")
	}
	root := gjson.ParseBytes(data)

	rawNodes := root.Get("nodes")
	if !rawNodes.Exists() || !rawNodes.IsObject() {
		return nil, fmt.Errorf("tree data missing %q object", "nodes")
	}

	var nodes []domain.PassiveNode
	var parseErr error
	rawNodes.ForEach(func(key, value gjson.Result) bool {
		id, err := strconv.Atoi(key.String())
		if err != nil {
			parseErr = fmt.Errorf("node id %q is not an integer", key.String())
			return false
		}
		var dto nodeDTO
		if err := mapstructure.Decode(value.Value(), &dto); err != nil {
			parseErr = fmt.Errorf("node %d: %w", id, err)
			return false
		}
		if dto.Kind == "" {
			dto.Kind = domain.NodeKindSmall
		}
		nodes = append(nodes, domain.PassiveNode{
			ID:       domain.NodeID(id),
			Name:     dto.Name,
			Kind:     dto.Kind,
			Stats:    dto.Stats,
			Position: domain.Position{X: dto.X, Y: dto.Y},
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	edges := make(map[domain.NodeID][]domain.NodeID)
	rawEdges := root.Get("edges")
	if !rawEdges.Exists() || !rawEdges.IsArray() {
		return nil, fmt.Errorf("tree data missing %q array", "edges")
	}
	rawEdges.ForEach(func(_, pair gjson.Result) bool {
		ends := pair.Array()
		if len(ends) != 2 {
			parseErr = fmt.Errorf("edge %s is not a pair", pair.Raw)
			return false
		}
		a := domain.NodeID(ends[0].Int())
		b := domain.NodeID(ends[1].Int())
		edges[a] = append(edges[a], b)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	rawStarts := root.Get("class_starts")
	if !rawStarts.Exists() || !rawStarts.IsObject() {
		return nil, fmt.Errorf("tree data missing %q object", "class_starts")
	}
	classStarts := make(map[string]domain.NodeID)
	rawStarts.ForEach(func(key, value gjson.Result) bool {
		classStarts[key.String()] = domain.NodeID(value.Int())
		return true
	})

	return domain.NewPassiveTree(nodes, edges, classStarts)
}
