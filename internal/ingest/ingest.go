package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ammosync/internal/config"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
)

var (
	ErrMissingName      = errors.New("character has no name")
	ErrUnknownSheetType = errors.New("unknown sheet type")
	ErrDuplicateRow     = errors.New("duplicate row id")
)

// characterNamespace seeds the ids derived for characters and rows, so the
// same sheet always ingests to the same keys.
var characterNamespace = uuid.MustParse("5b0d7f0e-3c4a-4f57-9d3e-8f1a2b6c7d90")

type Result struct {
	CharactersUpserted int
	AttributesWritten  int
	AttributesRemoved  int
	FilesSkipped       int
	Errors             []error
}

type Options struct {
	Full bool
}

func Run(ctx context.Context, cfg *config.ProjectConfig, layout *config.Sheet, db Store, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	if !options.Full {
		var err error
		existingHashes, err = db.GetCharacterHashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("get character hashes: %w", err)
		}
	}

	files, err := walkSheetFiles(cfg.Sheets, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking sheet files: %w", err)
	}

	result := &Result{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w", path, err))
			continue
		}
		hash := computeHash(data)
		if !options.Full {
			if existing, ok := existingHashes[path]; ok && existing == hash {
				result.FilesSkipped++
				continue
			}
		}

		file, err := parseCharacterFile(data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}

		ch, attrs, err := buildCharacter(layout, file, path, hash)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("building %s: %w", path, err))
			continue
		}

		if err := db.UpsertCharacter(ctx, ch); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", path, err))
			continue
		}
		removed, err := db.DeleteAttributes(ctx, ch.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("clearing attributes of %s: %w", ch.Name, err))
			continue
		}
		result.AttributesRemoved += int(removed)
		result.CharactersUpserted++

		for _, attr := range attrs {
			if err := db.SetAttribute(ctx, ch.ID, attr.Name, attr.Current); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("writing %s for %s: %w", attr.Name, ch.Name, err))
				continue
			}
			result.AttributesWritten++
		}
	}

	return result, nil
}

// buildCharacter turns a parsed file into the character record and its
// attributes, in sheet order: weapons, then ammo, then free attributes.
func buildCharacter(layout *config.Sheet, file *CharacterFile, path, hash string) (store.Character, []store.Attribute, error) {
	id := strings.TrimSpace(file.ID)
	if id == "" {
		id = uuid.NewSHA1(characterNamespace, []byte(strings.ToLower(file.Name))).String()
	}
	ch := store.Character{
		ID:         id,
		Name:       file.Name,
		SheetType:  file.Type,
		SourceFile: path,
		SourceHash: hash,
	}

	var attrs []store.Attribute
	add := func(key sheet.Key, value string) {
		attrs = append(attrs, store.Attribute{CharacterID: id, Name: key.String(), Current: value})
	}

	seen := make(map[string]struct{})
	claim := func(section, rowID string) error {
		k := section + "/" + rowID
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: %s in %s", ErrDuplicateRow, rowID, section)
		}
		seen[k] = struct{}{}
		return nil
	}

	w := layout.Weapons
	for i, weapon := range file.Weapons {
		rowID := rowIDFor(id, w.Section, i, weapon.ID)
		if err := claim(w.Section, rowID); err != nil {
			return ch, nil, err
		}
		key := func(field string) sheet.Key { return sheet.Key{Section: w.Section, RowID: rowID, Field: field} }
		add(key(w.Name), strings.TrimSpace(weapon.Name))
		add(key(w.Ammo), strings.TrimSpace(weapon.Ammo))
		add(key(w.AmmoCount), string(weapon.AmmoCount))
		add(key(w.Damage), string(weapon.Damage))
		add(key(w.FireRate), string(weapon.FireRate))
		add(key(w.Qualities), weapon.Qualities)
	}

	a := layout.Ammo
	for i, ammo := range file.Ammo {
		rowID := rowIDFor(id, a.Section, i, ammo.ID)
		if err := claim(a.Section, rowID); err != nil {
			return ch, nil, err
		}
		add(sheet.Key{Section: a.Section, RowID: rowID, Field: a.Name}, strings.TrimSpace(ammo.Name))
		add(sheet.Key{Section: a.Section, RowID: rowID, Field: a.Quantity}, string(ammo.Quantity))
	}

	names := make([]string, 0, len(file.Attributes))
	for name := range file.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := sheet.ParseKey(layout, name); ok {
			return ch, nil, fmt.Errorf("attribute %s belongs to a repeating section; list it under weapons or ammo", name)
		}
		attrs = append(attrs, store.Attribute{CharacterID: id, Name: name, Current: string(file.Attributes[name])})
	}

	return ch, attrs, nil
}

// rowIDFor returns explicit when set, otherwise a stable id derived from the
// character, the section and the row's position.
func rowIDFor(characterID, section string, index int, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	u := uuid.NewSHA1(characterNamespace, []byte(fmt.Sprintf("%s/%s/%d", characterID, section, index)))
	return "-" + strings.ReplaceAll(u.String(), "-", "")[:19]
}

func walkSheetFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() {
				return nil
			}
			if !isSheetFile(d.Name()) {
				return nil
			}
			if isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isSheetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
