package testutil

import (
	"strings"
	"time"

	"github.com/chuckie/llmc/internal/config"
	"github.com/chuckie/llmc/internal/domain"
)

// SampleDiffSmall is a small staged diff.
const SampleDiffSmall = `diff --git a/main.go b/main.go
index 1234567..abcdefg 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,7 @@
 package main
 
+import "fmt"
+
 func main() {
-    println("Hello")
+    fmt.Println("Hello, World!")
 }
`

// SampleDiffLarge is well past DefaultTokenLimit.
var SampleDiffLarge = func() string {
	const header = `diff --git a/very_long_file.go b/very_long_file.go
index 1234567..abcdefg 100644
--- a/very_long_file.go
+++ b/very_long_file.go
@@ -1,5 +1,1000 @@
 package main

`
	return header + strings.Repeat("+// This is a very long comment line that repeats\n", 400)
}()

// SampleSecretDiff stages an OpenAI-style key.
const SampleSecretDiff = `diff --git a/.env b/.env
new file mode 100644
--- /dev/null
+++ b/.env
@@ -0,0 +1 @@
+OPENAI_API_KEY=sk-abcdefghijklmnopqrstuvwxyz0123456789ABCD
`

// Summary wraps diff as a one-file ChangeSummary.
func Summary(diff string) domain.ChangeSummary {
	return domain.NewChangeSummary(diff, 1)
}

// MockModel is an offline model entry.
func MockModel() domain.ModelConfig {
	return domain.ModelConfig{Name: "mock", Provider: "mock", ModelID: "mock-1"}
}

// Config returns built-in defaults with the mock model active. Options
// adjust the copy before it is returned.
func Config(opts ...func(*config.Config)) *config.Config {
	cfg := config.Default()
	cfg.Models = append(cfg.Models, MockModel())
	cfg.DefaultModel = "mock"
	cfg.Timeout = 5 * time.Second
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
