package textgrid

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write serializes tg in Praat's long text format.
func Write(w io.Writer, tg *TextGrid) error {
	var b strings.Builder
	b.WriteString("File type = \"ooTextFile\"\n")
	b.WriteString("Object class = \"TextGrid\"\n\n")
	fmt.Fprintf(&b, "xmin = %s \n", num(tg.XMin))
	fmt.Fprintf(&b, "xmax = %s \n", num(tg.XMax))
	if len(tg.Tiers) == 0 {
		b.WriteString("tiers? <absent> \n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("tiers? <exists> \n")
	fmt.Fprintf(&b, "size = %d \n", len(tg.Tiers))
	b.WriteString("item []: \n")
	for i, t := range tg.Tiers {
		fmt.Fprintf(&b, "    item [%d]:\n", i+1)
		fmt.Fprintf(&b, "        class = %s \n", quote(t.Class))
		fmt.Fprintf(&b, "        name = %s \n", quote(t.Name))
		fmt.Fprintf(&b, "        xmin = %s \n", num(t.XMin))
		fmt.Fprintf(&b, "        xmax = %s \n", num(t.XMax))
		if t.IsInterval() {
			fmt.Fprintf(&b, "        intervals: size = %d \n", len(t.Intervals))
			for j, iv := range t.Intervals {
				fmt.Fprintf(&b, "        intervals [%d]:\n", j+1)
				fmt.Fprintf(&b, "            xmin = %s \n", num(iv.Start))
				fmt.Fprintf(&b, "            xmax = %s \n", num(iv.End))
				fmt.Fprintf(&b, "            text = %s \n", quote(iv.Label))
			}
			continue
		}
		fmt.Fprintf(&b, "        points: size = %d \n", len(t.Points))
		for j, p := range t.Points {
			fmt.Fprintf(&b, "        points [%d]:\n", j+1)
			fmt.Fprintf(&b, "            number = %s \n", num(p.Time))
			fmt.Fprintf(&b, "            mark = %s \n", quote(p.Mark))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
