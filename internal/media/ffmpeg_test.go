package media

import (
	"strings"
	"testing"
)

func TestRenderArgs(t *testing.T) {
	args := renderArgs("cover.jpg", []string{"audio/ch_1.mp3", "audio/ch_2.mp3", "audio/ch_3.mp3"}, "videos/1_3.tmp.mp4")
	joined := strings.Join(args, " ")

	// Image first, then each audio input in chapter order.
	if !strings.Contains(joined, "-loop 1 -framerate 1 -i cover.jpg") {
		t.Fatalf("missing looped image input: %s", joined)
	}
	wantOrder := []string{"cover.jpg", "audio/ch_1.mp3", "audio/ch_2.mp3", "audio/ch_3.mp3"}
	last := -1
	for _, w := range wantOrder {
		idx := strings.Index(joined, w)
		if idx <= last {
			t.Fatalf("input %q out of order in: %s", w, joined)
		}
		last = idx
	}

	wantFilter := "[0:v]scale=trunc(iw/2)*2:trunc(ih/2)*2[v];[1:0][2:0][3:0]concat=n=3:v=0:a=1[outa]"
	if !strings.Contains(joined, wantFilter) {
		t.Fatalf("filter_complex = %s, want %s", joined, wantFilter)
	}

	for _, flag := range []string{"-c:v libx264", "-tune stillimage", "-c:a aac", "-b:a 192k", "-pix_fmt yuv420p", "-shortest"} {
		if !strings.Contains(joined, flag) {
			t.Fatalf("missing %q in: %s", flag, joined)
		}
	}
	if args[len(args)-1] != "videos/1_3.tmp.mp4" {
		t.Fatalf("output path must be last, got %q", args[len(args)-1])
	}
}

func TestRenderTempPath(t *testing.T) {
	if got := renderTempPath("videos/1_3.mp4"); got != "videos/1_3.tmp.mp4" {
		t.Fatalf("renderTempPath = %q", got)
	}
}

func TestParseProbeDuration(t *testing.T) {
	tests := []struct {
		output  string
		want    float64
		wantErr bool
	}{
		{"2400.153000\n", 2400.153, false},
		{"0.0", 0, false},
		{"  95.5  ", 95.5, false},
		{"N/A\n", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseProbeDuration(tt.output)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseProbeDuration(%q) expected error", tt.output)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseProbeDuration(%q) error = %v", tt.output, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseProbeDuration(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}
