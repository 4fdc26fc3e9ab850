//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	cliPkg  = "./cmd/parish"
	stubPkg = "./cmd/parish-stub"
	cliBin  = "bin/parish"
	stubBin = "bin/parish-stub"

	templDir = "./internal/templates"
)

// Generate runs templ generate over the templates directory. The generated
// _templ.go files are checked in; rerun this after editing any .templ file.
func Generate() error {
	if _, err := exec.LookPath("templ"); err != nil {
		fmt.Println(">> templ not found; install with:")
		fmt.Println("   go install github.com/a-h/templ/cmd/templ@v0.3.1001")
		return err
	}
	fmt.Println(">> templ generate", templDir)
	return sh.Run("templ", "generate", "-path", templDir)
}

// Build generates templ output, tidies deps, then compiles both binaries into ./bin.
func Build() error {
	mg.Deps(Generate, Tidy)
	fmt.Println(">> Building parish and parish-stub...")
	if err := sh.Run("go", "build", "-o", cliBin, cliPkg); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", stubBin, stubPkg)
}

// Stub builds then runs the stand-in API on $PARISH_STUB_ADDR (default :8080).
func Stub() error {
	mg.Deps(Build)
	fmt.Println(">> Starting stand-in API...")
	return sh.RunV("./" + stubBin)
}

// Dev generates templates then runs the stand-in API via go run with debug
// logging.
func Dev() error {
	mg.Deps(Generate)
	fmt.Println(">> Dev mode: go run", stubPkg, "...")
	cmd := exec.Command("go", "run", stubPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "PARISH_VERBOSE=1", "PARISH_STUB_DB=parish-dev.db")
	return cmd.Run()
}

// Watch runs templ generate --watch in the background and the stand-in API in
// the foreground, so /records reflects template edits. Ctrl-C stops both.
func Watch() error {
	mg.Deps(Generate)

	fmt.Println(">> Starting templ watcher...")
	watcher := exec.Command("templ", "generate", "--watch", "-path", templDir)
	watcher.Stdout = os.Stdout
	watcher.Stderr = os.Stderr
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start templ watcher: %w", err)
	}

	fmt.Println(">> Starting stand-in API (go run)...")
	server := exec.Command("go", "run", stubPkg)
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	server.Env = append(os.Environ(), "PARISH_VERBOSE=1", "PARISH_STUB_DB=parish-dev.db")
	if err := server.Start(); err != nil {
		watcher.Process.Kill()
		return fmt.Errorf("start stand-in API: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n>> Shutting down...")
	server.Process.Kill()
	watcher.Process.Kill()
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test generates templates then runs all unit tests with the race detector;
// the sqlite driver needs cgo.
func Test() error {
	mg.Deps(Generate)
	fmt.Println(">> Running tests...")
	return sh.RunWith(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts and the local stand-in databases.
func Clean() error {
	fmt.Println(">> Cleaning...")
	for _, p := range []string{"bin", "parish-stub.db", "parish-dev.db"} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return nil
}

// Install installs the parish CLI to $GOPATH/bin.
func Install() error {
	mg.Deps(Tidy)
	return sh.Run("go", "install", cliPkg)
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
