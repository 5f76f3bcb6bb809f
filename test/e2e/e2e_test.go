//go:build e2e

package e2e

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_Health(t *testing.T) {
	env := SetupE2EEnv(t)

	resp, err := env.Get("/health")
	require.NoError(t, err)

	var health map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &health))
	assert.Equal(t, "ok", health["status"])
}

func TestE2E_Search(t *testing.T) {
	env := SetupE2EEnv(t)

	t.Run("finds PARA content", func(t *testing.T) {
		resp, err := env.Get("/search?q=PARA")
		require.NoError(t, err)

		var out struct {
			Query   string `json:"query"`
			Results []struct {
				ID    string  `json:"id"`
				Title string  `json:"title"`
				Score float64 `json:"score"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.Equal(t, "PARA", out.Query)
		require.NotEmpty(t, out.Results)
		assert.LessOrEqual(t, len(out.Results), 10)
	})

	t.Run("missing query is rejected", func(t *testing.T) {
		_, err := env.Get("/search")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http 400")
	})
}

func TestE2E_Chat(t *testing.T) {
	env := SetupE2EEnv(t)

	t.Run("greeting gets a quick response", func(t *testing.T) {
		resp, err := env.Post("/chat", map[string]string{"message": "안녕하세요"})
		require.NoError(t, err)

		var out struct {
			Answer string `json:"answer"`
			Quick  bool   `json:"quick"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.NotEmpty(t, out.Answer)
		assert.True(t, out.Quick)
	})

	t.Run("knowledge question falls back to matched content", func(t *testing.T) {
		resp, err := env.Post("/chat", map[string]string{"message": "PARA 시스템이 뭐야?"})
		require.NoError(t, err)

		var out struct {
			Answer string `json:"answer"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &out))
		assert.NotEmpty(t, out.Answer)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		status, _, err := env.PostExpectStatus("/chat", map[string]string{"message": ""})
		require.NoError(t, err)
		assert.Equal(t, 400, status)
	})
}

func TestE2E_NotebookLifecycle(t *testing.T) {
	env := SetupE2EEnv(t)

	// Create a notebook
	resp, err := env.Post("/rag/notebooks", map[string]string{"title": "독서 노트"})
	require.NoError(t, err)

	var notebook struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &notebook))
	assert.NotEmpty(t, notebook.ID)
	assert.Equal(t, "독서 노트", notebook.Title)

	t.Run("notebook appears in listing", func(t *testing.T) {
		resp, err := env.Get("/rag/notebooks")
		require.NoError(t, err)

		var notebooks []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &notebooks))
		require.Len(t, notebooks, 1)
		assert.Equal(t, notebook.ID, notebooks[0].ID)
	})

	t.Run("upload and ask round trip", func(t *testing.T) {
		content := []byte("세컨드브레인은 디지털 노트 시스템입니다. PARA로 정리하고 CODE로 활용합니다.")
		resp, err := env.Upload(notebook.ID, "notes.txt", content)
		require.NoError(t, err)

		var upload struct {
			NotebookID string `json:"notebookId"`
			Results    []struct {
				File     string `json:"file"`
				Added    int    `json:"added"`
				SourceID string `json:"sourceId"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &upload))
		require.Len(t, upload.Results, 1)
		assert.Equal(t, "notes.txt", upload.Results[0].File)
		assert.Equal(t, 1, upload.Results[0].Added)
		assert.NotEmpty(t, upload.Results[0].SourceID)

		askResp, err := env.Post("/rag/ask", map[string]interface{}{
			"notebookId": notebook.ID,
			"question":   "세컨드브레인이 뭐야?",
		})
		require.NoError(t, err)

		var answer struct {
			Answer    string `json:"answer"`
			Citations []struct {
				FileName string `json:"fileName"`
				Page     string `json:"page"`
			} `json:"citations"`
		}
		require.NoError(t, json.Unmarshal(askResp.Data, &answer))
		assert.NotEmpty(t, answer.Answer)
		require.Len(t, answer.Citations, 1)
		assert.Equal(t, "notes.txt", answer.Citations[0].FileName)
		assert.Equal(t, "-", answer.Citations[0].Page)
	})

	t.Run("sources listing reflects uploads", func(t *testing.T) {
		resp, err := env.Get("/rag/notebooks/" + notebook.ID + "/sources")
		require.NoError(t, err)

		var sources []struct {
			FileName string `json:"fileName"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &sources))
		require.Len(t, sources, 1)
		assert.Equal(t, "notes.txt", sources[0].FileName)
	})

	t.Run("upload to unknown notebook is 404", func(t *testing.T) {
		_, err := env.Upload("nb_missing", "notes.txt", []byte("text"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http 404")
	})
}

func TestE2E_IngestCurated(t *testing.T) {
	env := SetupE2EEnv(t)

	resp, err := env.Post("/rag/notebooks", map[string]string{"title": "코칭"})
	require.NoError(t, err)

	var notebook struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &notebook))

	ingestResp, err := env.Post("/rag/ingest-curated", map[string]string{"notebookId": notebook.ID})
	require.NoError(t, err)

	var result struct {
		Added int `json:"added"`
	}
	require.NoError(t, json.Unmarshal(ingestResp.Data, &result))
	assert.Greater(t, result.Added, 0)
}
