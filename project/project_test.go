package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go-stepseq/sequencer"
)

func TestCaptureApply(t *testing.T) {
	src := sequencer.NewAcidEngine()
	src.SetSeed(77)
	src.SetLength(5)
	src.Pattern().SetStep(12, 30, true, false) // past the length, still saved
	src.SelectStep(3)

	st := Capture(src)
	if st.Length != 5 || st.Seed != 77 || st.Cursor != 3 {
		t.Fatalf("unexpected capture: %+v", st)
	}

	dst := sequencer.NewAcidEngine()
	if err := st.Apply(dst); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Save(), dst.Save()); diff != "" {
		t.Fatalf("prefix (-want +got):\n%s", diff)
	}
	if got := dst.Pattern().Step(12); got != sequencer.Encode(30, true, false) {
		t.Fatalf("step 12 = %#x", got)
	}
	if diff := cmp.Diff(src.Cursor(), dst.Cursor()); diff != "" {
		t.Fatalf("cursor (-want +got):\n%s", diff)
	}
	if dst.Seed() != 77 {
		t.Fatalf("seed = %d", dst.Seed())
	}
}

func TestApplyWrongEngine(t *testing.T) {
	st := Capture(sequencer.NewTrigEngine())
	if err := st.Apply(sequencer.NewAcidEngine()); err == nil {
		t.Fatal("expected an engine mismatch error")
	}
}

func TestApplyBadHex(t *testing.T) {
	st := State{Engine: sequencer.EngineTrig, Length: 4, Steps: "zz"}
	if err := st.Apply(sequencer.NewTrigEngine()); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestSaveListLoad(t *testing.T) {
	root := t.TempDir()
	e := sequencer.NewTrigEngine()
	t0 := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	first, err := Save(root, "live", "", Capture(e), t0)
	if err != nil {
		t.Fatal(err)
	}
	e.SetLength(7)
	if _, err := Save(root, "live", "verse", Capture(e), t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := Save(root, "", "", Capture(e), t0); err != nil {
		t.Fatal(err)
	}
	// ignored by the listing
	os.WriteFile(filepath.Join(root, "live", "notes.json"), []byte("{}"), 0644)

	projects, err := List(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"live", "untitled"}, projects); diff != "" {
		t.Fatalf("projects (-want +got):\n%s", diff)
	}

	saves, err := ListSaves(root, "live")
	if err != nil {
		t.Fatal(err)
	}
	want := []SaveInfo{
		{Filename: "2026-03-14_09-27-53_verse.json", Name: "verse", Timestamp: t0.Add(time.Minute)},
		{Filename: "2026-03-14_09-26-53.json", Timestamp: t0},
	}
	if diff := cmp.Diff(want, saves); diff != "" {
		t.Fatalf("saves (-want +got):\n%s", diff)
	}

	st, err := Load(first)
	if err != nil {
		t.Fatal(err)
	}
	if st.Length != 16 {
		t.Fatalf("first save length = %d", st.Length)
	}

	latest, err := LoadLatest(root, "live")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Length != 7 {
		t.Fatalf("latest save length = %d", latest.Length)
	}
}

func TestLoadLatestEmpty(t *testing.T) {
	_, err := LoadLatest(t.TempDir(), "none")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want ErrNotExist", err)
	}
}

func TestEEPROM(t *testing.T) {
	img := EEPROM{Path: filepath.Join(t.TempDir(), "acid.bin")}

	fresh := sequencer.NewAcidEngine()
	before := fresh.Save()
	if err := img.Read(fresh); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, fresh.Save()); diff != "" {
		t.Fatalf("missing image changed the pattern (-want +got):\n%s", diff)
	}

	src := sequencer.NewAcidEngine()
	src.SetLength(9)
	src.SetSeed(3)
	if err := img.Write(src); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(img.Path)
	if len(data) != 9 {
		t.Fatalf("image holds %d bytes, want 9", len(data))
	}

	dst := sequencer.NewAcidEngine()
	dst.SetLength(9)
	if err := img.Read(dst); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(src.Save(), dst.Save()); diff != "" {
		t.Fatalf("restored (-want +got):\n%s", diff)
	}
}

func TestRestoreFallsBackToEEPROM(t *testing.T) {
	root := t.TempDir()

	e := sequencer.NewTrigEngine()
	before := e.Save()
	from, err := Restore(root, "live", e)
	if err != nil || from != "" {
		t.Fatalf("empty project: from %q, err %v", from, err)
	}
	if diff := cmp.Diff(before, e.Save()); diff != "" {
		t.Fatalf("empty project changed the pattern (-want +got):\n%s", diff)
	}

	// image only
	src := sequencer.NewTrigEngine()
	src.SetSeed(11)
	img := EEPROM{Path: EEPROMPath(root, "live")}
	if err := img.Write(src); err != nil {
		t.Fatal(err)
	}
	dst := sequencer.NewTrigEngine()
	from, err = Restore(root, "live", dst)
	if err != nil {
		t.Fatal(err)
	}
	if from != img.Path {
		t.Fatalf("restored from %q, want the image", from)
	}
	if diff := cmp.Diff(src.Save(), dst.Save()); diff != "" {
		t.Fatalf("image restore (-want +got):\n%s", diff)
	}

	// a save wins over the image
	saved := sequencer.NewTrigEngine()
	saved.SetLength(6)
	path, err := Save(root, "live", "", Capture(saved), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	dst = sequencer.NewTrigEngine()
	from, err = Restore(root, "live", dst)
	if err != nil {
		t.Fatal(err)
	}
	if from != path || dst.Pattern().Length() != 6 {
		t.Fatalf("restored from %q with length %d", from, dst.Pattern().Length())
	}
}

func TestApplyShortSteps(t *testing.T) {
	fresh := sequencer.NewAcidEngine()
	st := State{Engine: sequencer.EngineAcid, Length: 4, Seed: 9, Steps: "2122"}

	e := sequencer.NewAcidEngine()
	if err := st.Apply(e); err != nil {
		t.Fatal(err)
	}
	if e.Seed() != 9 {
		t.Fatalf("seed = %d", e.Seed())
	}
	want := []byte{0x21, 0x22, fresh.Pattern().Step(2), fresh.Pattern().Step(3)}
	if diff := cmp.Diff(want, e.Save()); diff != "" {
		t.Fatalf("missing bytes must not be randomized (-want +got):\n%s", diff)
	}
}
