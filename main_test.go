package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"orbcloud/orbital"
)

func testCloud(t *testing.T) *orbital.CloudExport {
	t.Helper()
	s, err := orbital.NewSampler(2, 1, 1, 1, 200)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := orbital.Generate(context.Background(), s, 40, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	return orbital.NewCloudExport(s, 3, ps)
}

func TestWriteCloudFile(t *testing.T) {
	c := testCloud(t)
	path := filepath.Join(t.TempDir(), "cloud.json")
	var stdout bytes.Buffer
	if err := writeCloud(&stdout, path, orbital.FormatJSON, c); err != nil {
		t.Fatal(err)
	}
	if stdout.Len() != 0 {
		t.Error("file export also wrote to stdout")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back orbital.CloudExport
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != c.ID || len(back.Points) != 40 {
		t.Errorf("decoded id %q with %d points", back.ID, len(back.Points))
	}
}

func TestWriteCloudStdout(t *testing.T) {
	c := testCloud(t)
	for _, path := range []string{"", "-"} {
		var stdout bytes.Buffer
		if err := writeCloud(&stdout, path, orbital.FormatCSV, c); err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(stdout.Bytes(), []byte("x,y,z,r,theta,phi,density\n")) {
			t.Errorf("path %q: stdout %q", path, stdout.String())
		}
	}
	if err := writeCloud(&bytes.Buffer{}, filepath.Join(t.TempDir(), "no", "cloud.json"), orbital.FormatJSON, c); err == nil {
		t.Error("missing directory accepted")
	}
}

func TestWriteConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), defaultConfigFile)
	if err := writeConfigFile(path, false); err != nil {
		t.Fatal(err)
	}
	if err := writeConfigFile(path, false); err == nil {
		t.Error("existing file overwritten without force")
	}
	if err := writeConfigFile(path, true); err != nil {
		t.Fatalf("force: %v", err)
	}
	cfg, err := loadConfig(newViper(), path, true)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != defaultConfig() {
		t.Errorf("written config %+v", *cfg)
	}
}
