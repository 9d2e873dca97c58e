package parser

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"resource-planner/metrics"
	"resource-planner/models"
)

// CSV file names expected inside a snapshot directory. Only resources.csv is
// mandatory.
const (
	ResourcesFile   = "resources.csv"
	AssignmentsFile = "assignments.csv"
	AllocationsFile = "allocations.csv"
	EventsFile      = "events.csv"
)

// Load reads a snapshot from path, which is either a directory of CSV files
// or a YAML document, and validates it.
func Load(path string, log logrus.FieldLogger) (*models.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat snapshot")
	}

	var snap *models.Snapshot
	if info.IsDir() {
		snap, err = loadDir(path, log)
	} else {
		snap, err = loadYAML(path)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(snap); err != nil {
		metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"path":        path,
		"resources":   len(snap.Resources),
		"assignments": len(snap.Assignments),
		"allocations": len(snap.Allocations),
		"events":      len(snap.Events),
		"duration":    time.Since(start),
	}).Info("snapshot loaded")
	return snap, nil
}

func loadYAML(path string) (*models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer f.Close()
	return ParseYAML(f)
}

func loadDir(dir string, log logrus.FieldLogger) (*models.Snapshot, error) {
	snap := &models.Snapshot{Allocations: models.Allocations{}}

	if err := readFile(dir, ResourcesFile, true, log, func(r io.Reader) (err error) {
		snap.Resources, err = ParseResources(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(dir, AssignmentsFile, false, log, func(r io.Reader) (err error) {
		snap.Assignments, err = ParseAssignments(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(dir, AllocationsFile, false, log, func(r io.Reader) (err error) {
		snap.Allocations, err = ParseAllocations(r)
		return err
	}); err != nil {
		return nil, err
	}
	if err := readFile(dir, EventsFile, false, log, func(r io.Reader) (err error) {
		snap.Events, err = ParseEvents(r)
		return err
	}); err != nil {
		return nil, err
	}
	return snap, nil
}

func readFile(dir, name string, required bool, log logrus.FieldLogger, parse func(io.Reader) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			log.WithField("file", path).Debug("optional snapshot file missing")
			return nil
		}
		return errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()
	return parse(f)
}
