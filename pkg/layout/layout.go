package layout

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// EntryPageName is the file name of the conversation list page inside an archive folder.
	EntryPageName = "messages.html"
	// DataDirName holds the per-conversation data files, relative to the entry page.
	DataDirName = "conv_files"

	defaultStem = "messages"
	maxSuffix   = 9999
)

var ErrOutputDir = errors.New("output directory is not usable")

// EnsureOutputDir creates root if needed and checks that it is a directory.
func EnsureOutputDir(root string) error {
	if root == "" {
		return errors.Wrap(ErrOutputDir, "no output directory given")
	}
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return errors.Wrapf(ErrOutputDir, "%s: %v", root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(ErrOutputDir, "%s: %v", root, err)
	}
	if !info.IsDir() {
		return errors.Wrapf(ErrOutputDir, "%s is not a directory", root)
	}
	return nil
}

// Layout is one reserved archive folder under an output root.
type Layout struct {
	root   string
	folder string
}

// Stem is the folder name derived from an input file: its base name without extension.
func Stem(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return defaultStem
	}
	return stem
}

// Reserve creates a new archive folder under root named after inputPath. When that name is taken the
// folder gets a numeric suffix, _0001 onwards. Existing folders are never reused.
func Reserve(root, inputPath string) (*Layout, error) {
	stem := Stem(inputPath)

	for i := 0; i <= maxSuffix; i++ {
		folder := stem
		if i > 0 {
			folder = fmt.Sprintf("%s_%04d", stem, i)
		}

		err := os.Mkdir(filepath.Join(root, folder), os.ModePerm)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(ErrOutputDir, "could not create %s: %v", folder, err)
		}

		l := &Layout{root: root, folder: folder}
		if err := os.Mkdir(l.DataDir(), os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "could not create data folder in %s", folder)
		}
		log.WithField("folder", l.Dir()).Debug("reserved archive folder")
		return l, nil
	}

	return nil, errors.Wrapf(ErrOutputDir, "every folder name for %q is taken in %s", stem, root)
}

// Root is the output directory the folder was reserved in.
func (l *Layout) Root() string {
	return l.root
}

// Folder is the name of the archive folder.
func (l *Layout) Folder() string {
	return l.folder
}

// Dir is the path of the archive folder.
func (l *Layout) Dir() string {
	return filepath.Join(l.root, l.folder)
}

func (l *Layout) DataDir() string {
	return filepath.Join(l.Dir(), DataDirName)
}

// EntryPath is the entry page path relative to Root.
func (l *Layout) EntryPath() string {
	return filepath.Join(l.folder, EntryPageName)
}

// WriteFragment writes one data file into the data folder. Names must not contain path separators.
func (l *Layout) WriteFragment(name string, content []byte) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return errors.Errorf("invalid data file name %q", name)
	}
	if err := os.WriteFile(filepath.Join(l.DataDir(), name), content, 0o644); err != nil { // nolint:gosec
		return errors.Wrapf(err, "could not write %s", name)
	}
	return nil
}

// WriteEntryPage creates the entry page and hands a buffered writer for it to render.
func (l *Layout) WriteEntryPage(render func(w io.Writer) error) error {
	path := filepath.Join(l.Dir(), EntryPageName)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create entry page")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "could not write entry page")
	}
	return errors.Wrap(f.Close(), "could not close entry page")
}
