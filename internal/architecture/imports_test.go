package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestImportBoundaries(t *testing.T) {
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}

	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	internalDir := filepath.Join(root, "internal")
	fset := token.NewFileSet()

	type violation struct {
		file string
		imp  string
		rule string
	}
	var violations []violation

	walkErr := filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		layer := layerFor(rel)
		if layer == "" {
			return nil
		}
		disallowed := disallowedImports(modulePath, layer)
		if len(disallowed) == 0 {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			for _, bad := range disallowed {
				if strings.HasPrefix(imp, bad) {
					violations = append(violations, violation{file: rel, imp: imp, rule: bad})
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}

	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", v.file, v.imp, v.rule)
		}
		t.Fatal(b.String())
	}
}

func TestAppImportedOnlyByEntrypoints(t *testing.T) {
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	appPkg := modulePath + "/internal/app"
	appDir := filepath.Join(root, "internal", "app")
	fset := token.NewFileSet()
	var offenders []string

	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == appDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err == nil && imp == appPkg {
				rel, _ := filepath.Rel(root, path)
				offenders = append(offenders, filepath.ToSlash(rel))
				break
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	if len(offenders) > 0 {
		t.Fatalf("internal/app must only be imported from cmd/, found in:\n- %s", strings.Join(offenders, "\n- "))
	}
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/pkg/"):
		return "pkg"
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/modules/"):
		return "modules"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	default:
		return ""
	}
}

func disallowedImports(modulePath string, layer string) []string {
	var (
		http     = modulePath + "/internal/http/"
		services = modulePath + "/internal/services"
		data     = modulePath + "/internal/data/"
		modules  = modulePath + "/internal/modules/"
		platform = modulePath + "/internal/platform/"
	)
	switch layer {
	case "domain", "pkg":
		return []string{http, services, data, modules, platform}
	case "platform":
		return []string{http, services, data, modules}
	case "modules", "data":
		return []string{http, services}
	case "services":
		return []string{http}
	default:
		return nil
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
