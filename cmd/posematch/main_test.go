package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/pkg/codec"
	"github.com/aretw0/posematch/pkg/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "posematch version "+strings.TrimSpace(posematch.Version)+"\n", out)
}

func TestMatchCommand(t *testing.T) {
	t.Setenv("POSEMATCH_CONFIG", "")
	dir := t.TempDir()
	doc := `[{"m00":1,"m01":0,"m02":0,"m03":0,"m10":0,"m11":1,"m12":0,"m13":0,"m20":0,"m21":0,"m22":1,"m23":0,"m30":0,"m31":0,"m32":0,"m33":1}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(doc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "space.json"), []byte(doc), 0644))

	_, err := execute(t, "match", "model", "space", "--dir", dir, "-o", "out.json", "-q", "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	set, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, domain.MatrixSet{domain.Identity()}, set)
}

func TestMatchCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(`[]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "space.json"), []byte(`[]`), 0644))
	job := "resources: " + dir + "\nmodel: model\nspace: space\noutput: empty.json\nlog_level: error\n"
	cfgPath := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(job), 0644))

	_, err := execute(t, "match", "--config", cfgPath, "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "empty.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"datas":[]}`, string(data))
}
