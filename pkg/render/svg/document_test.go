package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/treesquares/treesquares/pkg/palette"
)

var fixed = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func TestDocumentWellFormed(t *testing.T) {
	c, _ := NewCanvas("A4")
	d := NewDocument(c, palette.Palette{"röd": "#c0392b"})
	d.Header("Kommuner <2024>", "treesquares", fixed, "")
	d.Comment("Level lan--kommun")
	d.Rect(0, 0, 10, 5, Style{{"fill", "röd"}})
	d.Text(5, 2.5, "Åre & Östersund", Style{{"font-size", "2.4"}, {"fill", "white"}}, -90)
	d.Footer("done")

	dec := xml.NewDecoder(strings.NewReader(string(d.Bytes())))
	dec.Strict = false
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("document is not well formed: %v\n%s", err, d.Bytes())
		}
	}

	out := string(d.Bytes())
	for _, want := range []string{
		`<svg width="210mm" height="297mm" viewBox="0 0 210 297"`,
		`<title>Kommuner &lt;2024&gt;</title>`,
		`<!-- Sat 09.03.2024 14:05:00 -->`,
		`<!-- Level lan- -kommun -->`,
		`<rect x="0.00" y="0.00" width="10.00" height="5.00" style="fill: #c0392b;"/>`,
		`transform="rotate(-90 5.00 2.50)">Åre &amp; Östersund</text>`,
		`style="font-size: 2.4; fill: white;"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document does not end with </svg>")
	}
}

func TestStyleWith(t *testing.T) {
	s := Style{{"fill", "red"}, {"stroke", "black"}}
	got := s.With("fill", "blue").With("opacity", "0.5")
	want := Style{{"fill", "blue"}, {"stroke", "black"}, {"opacity", "0.5"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("With() = %v, want %v", got, want)
	}
	if s[0].Value != "red" {
		t.Error("With() modified the receiver")
	}
}

func ExampleDocument_Rect() {
	c, _ := NewCanvas("A4w-square")
	d := NewDocument(c, palette.Palette{"ljusblå": "#a9cce3"})
	d.Rect(10, 20.126, 30.5, 40, Style{{"fill", "ljusblå"}, {"stroke", "navy"}})
	fmt.Print(string(d.Bytes()))
	// Output:
	//  <rect x="10.00" y="20.13" width="30.50" height="40.00" style="fill: #a9cce3; stroke: navy;"/>
}
