package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/dmview/internal/core/config"
	"github.com/colonyops/dmview/internal/dmview"
)

const procedureJSON = `{"kind":"procedure","path":"data/DMC-BRAKE.XML","dmCode":"DMC-BRAKE","dmTitle":"Brake pads","steps":["Remove wheel","Fit pads"]}`

// newCSDB serves a small fixed catalog in the shape of the backend API.
func newCSDB(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/dms", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[
			{"path":"data/DMC-BRAKE.XML","dmCode":"DMC-BRAKE","dmTitle":"Brake pads","has_applicability":true},
			{"path":"data/DMC-FRAME.XML","dmCode":"DMC-FRAME","dmTitle":"Frame"}
		]}`)
	})
	mux.HandleFunc("/dm-preview", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("path") != "data/DMC-BRAKE.XML" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"DM not found"}`)
			return
		}
		_, _ = io.WriteString(w, procedureJSON)
	})
	mux.HandleFunc("/dm", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"path":"data/DMC-BRAKE.XML","xml":"<dmodule/>","applic_text":"Mountain bicycle only"}`)
	})
	mux.HandleFunc("/dm-eval", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mountain bicycle,Brook trekker Mk9", r.URL.Query().Get("selected"))
		_, _ = io.WriteString(w, `{"path":"data/DMC-BRAKE.XML","applies":true,"reason_kind":"ACT","reason_text":"model eq 'MTB'","act_dmCode":"DMC-ACT"}`)
	})
	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"selected":["Mk9"],
			"applicable_count":3,"applicable":[{"path":"data/DMC-BRAKE.XML","dmCode":"DMC-BRAKE","dmTitle":"Brake pads"}],
			"excluded_count":1,"excluded":[{"path":"data/DMC-FRAME.XML","dmCode":"DMC-FRAME","dmTitle":"Frame"}]}`)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	root   *cli.Command
	flags  *Flags
	xml    *XMLCmd
	out    *bytes.Buffer
	errOut *bytes.Buffer
	copied string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv := newCSDB(t)

	cfg, err := config.Load("", t.TempDir())
	require.NoError(t, err)
	cfg.API.BaseURL = srv.URL
	cfg.API.RequestsPerSecond = 0

	app, err := dmview.NewApp(cfg, dmview.BuildInfo{Version: "test"})
	require.NoError(t, err)

	h := &harness{
		flags:  &Flags{Config: cfg},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}

	h.root = &cli.Command{
		Name:           "dmview",
		Writer:         h.out,
		ErrWriter:      h.errOut,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	h.xml = NewXMLCmd(h.flags, app)
	h.xml.writeClipboard = func(s string) error {
		h.copied = s
		return nil
	}

	h.root = NewLsCmd(h.flags, app).Register(h.root)
	h.root = NewPreviewCmd(h.flags, app).Register(h.root)
	h.root = NewRenderCmd(h.flags, app).Register(h.root)
	h.root = h.xml.Register(h.root)
	h.root = NewEvalCmd(h.flags, app).Register(h.root)
	h.root = NewResolveCmd(h.flags, app).Register(h.root)
	h.root = NewHealthCmd(h.flags, app).Register(h.root)
	h.root = NewDoctorCmd(h.flags, app).Register(h.root)
	h.root = NewConfigValidateCmd(h.flags).Register(h.root)

	return h
}

func (h *harness) run(args ...string) error {
	return h.root.Run(context.Background(), append([]string{"dmview"}, args...))
}

func TestLs(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("ls"))

		assert.Contains(t, h.out.String(), "TITLE")
		assert.Contains(t, h.out.String(), "DMC-BRAKE")
		assert.Contains(t, h.out.String(), "DMC-FRAME")
		assert.Contains(t, h.errOut.String(), "Showing 2 of 2 DMs")
	})

	t.Run("query", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("ls", "--query", "brake"))

		assert.Contains(t, h.out.String(), "DMC-BRAKE")
		assert.NotContains(t, h.out.String(), "DMC-FRAME")
		assert.Contains(t, h.errOut.String(), "Showing 1 of 2 DMs")
	})

	t.Run("labels filter as json", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("ls", "--labels", "Mk9", "--json"))

		lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
		require.Len(t, lines, 1)

		var doc struct {
			Path string `json:"path"`
		}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &doc))
		assert.Equal(t, "data/DMC-BRAKE.XML", doc.Path)
		assert.Contains(t, h.errOut.String(), "applicability filter ON")
	})
}

func TestPreview(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("preview", "--markdown", "data/DMC-BRAKE.XML"))

		assert.Contains(t, h.out.String(), "# DMC-BRAKE")
		assert.Contains(t, h.out.String(), "Remove wheel")
	})

	t.Run("styled", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("preview", "--width", "60", "data/DMC-BRAKE.XML"))

		plain := ansi.Strip(h.out.String())
		assert.Contains(t, plain, "DMC-BRAKE")
		assert.Contains(t, plain, "Fit pads")
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("preview", "--json", "data/DMC-BRAKE.XML"))

		var out struct {
			DMCode string `json:"dmCode"`
			Kind   string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
		assert.Equal(t, "DMC-BRAKE", out.DMCode)
		assert.Equal(t, "procedure", out.Kind)
	})

	t.Run("missing path", func(t *testing.T) {
		h := newHarness(t)
		assert.ErrorContains(t, h.run("preview"), "missing <path>")
	})

	t.Run("backend error", func(t *testing.T) {
		h := newHarness(t)
		assert.ErrorContains(t, h.run("preview", "data/DMC-NONE.XML"), "DM not found")
	})
}

func TestRender(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		h := newHarness(t)

		file := filepath.Join(t.TempDir(), "preview.json")
		require.NoError(t, os.WriteFile(file, []byte(procedureJSON), 0o644))

		require.NoError(t, h.run("render", "-f", file, "--markdown"))
		assert.Contains(t, h.out.String(), "Remove wheel")
	})

	const markupJSON = `{"kind":"procedure","steps":["Fit <b>two</b> pads"]}`

	t.Run("keeps markup by default", func(t *testing.T) {
		h := newHarness(t)

		file := filepath.Join(t.TempDir(), "preview.json")
		require.NoError(t, os.WriteFile(file, []byte(markupJSON), 0o644))

		require.NoError(t, h.run("render", "-f", file, "--markdown"))
		assert.Contains(t, h.out.String(), `Fit \<b\>two\</b\> pads`)
	})

	t.Run("strip markup", func(t *testing.T) {
		h := newHarness(t)

		file := filepath.Join(t.TempDir(), "preview.json")
		require.NoError(t, os.WriteFile(file, []byte(markupJSON), 0o644))

		require.NoError(t, h.run("render", "-f", file, "--markdown", "--strip-markup"))
		assert.Contains(t, h.out.String(), "Fit two pads")
	})
}

func TestXML(t *testing.T) {
	t.Run("prints markup", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("xml", "data/DMC-BRAKE.XML"))

		assert.Equal(t, "<dmodule/>\n", h.out.String())
		assert.Contains(t, h.errOut.String(), "applicability: Mountain bicycle only")
		assert.Empty(t, h.copied)
	})

	t.Run("copy", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("xml", "--copy", "data/DMC-BRAKE.XML"))

		assert.Equal(t, "<dmodule/>", h.copied)
		assert.Contains(t, h.errOut.String(), "copied")
	})
}

func TestEval(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("eval", "data/DMC-BRAKE.XML"))

	assert.Contains(t, h.out.String(), "Applicability: Applies ✅ (ACT, ACT DMC-ACT)")
	assert.Contains(t, h.out.String(), "model eq 'MTB'")
}

func TestResolve(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("resolve", "--labels", "Mk9"))

		out := h.out.String()
		assert.Contains(t, out, "Selected: Mk9")
		assert.Contains(t, out, "Applicable (3)")
		assert.Contains(t, out, "… 2 more")
		assert.Contains(t, out, "Excluded (1)")
		assert.Contains(t, out, "DMC-FRAME  Frame")
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("resolve", "--json"))

		var out struct {
			ApplicableCount int `json:"applicable_count"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
		assert.Equal(t, 3, out.ApplicableCount)
	})
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("health"))
	assert.Contains(t, h.out.String(), ": ok")
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("config", "validate"))
		assert.Contains(t, ansi.Strip(h.out.String()), "Configuration is valid")
	})

	t.Run("invalid as json", func(t *testing.T) {
		h := newHarness(t)
		h.flags.Config.TUI.Theme = "no-such-theme"

		require.Error(t, h.run("config", "validate", "--format", "json"))

		var report validationReport
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
		assert.False(t, report.Valid)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "tui.theme", report.Errors[0].Field)
	})

	t.Run("unknown format", func(t *testing.T) {
		h := newHarness(t)
		assert.ErrorContains(t, h.run("config", "validate", "--format", "yaml"), "unknown format")
	})
}

func TestOutputWidth(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 100, outputWidth(&buf, 0))
	assert.Equal(t, 72, outputWidth(&buf, 72))
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)

	// The clipboard check only warns, so the backend decides the outcome.
	require.NoError(t, h.run("doctor", "--format", "json"))

	var report struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
	assert.True(t, report.Healthy)
	require.Len(t, report.Checks, 3)
	assert.Equal(t, "Backend", report.Checks[2].Name)
}
