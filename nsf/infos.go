package nsf

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"nsfplay/hw/hwdefs"
)

// PrintInfos writes a human readable summary of the NSF file to w.
func (nsf *File) PrintInfos(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	region := "NTSC"
	switch {
	case nsf.IsDualRegion():
		region = "NTSC/PAL"
	case nsf.IsPAL():
		region = "PAL"
	}

	chips := "none"
	if c := nsf.ExpansionChips(); len(c) != 0 {
		chips = strings.Join(c, ", ")
	}

	banks := "no"
	if nsf.IsBankswitched() {
		banks = fmt.Sprintf("% 02x", nsf.Bankswitch[:])
	}

	fmt.Fprintf(tw, "Song name:\t%s\n", nsf.SongName)
	fmt.Fprintf(tw, "Artist:\t%s\n", nsf.Artist)
	fmt.Fprintf(tw, "Copyright:\t%s\n", nsf.Copyright)
	fmt.Fprintf(tw, "Version:\t%d\n", nsf.Version)
	fmt.Fprintf(tw, "Songs:\t%d (starting at %d)\n", nsf.TotalSongs, nsf.StartingSong)
	fmt.Fprintf(tw, "Load address:\t$%04X\n", nsf.LoadAddr)
	fmt.Fprintf(tw, "Init address:\t$%04X\n", nsf.InitAddr)
	fmt.Fprintf(tw, "Play address:\t$%04X\n", nsf.PlayAddr)
	fmt.Fprintf(tw, "Region:\t%s\n", region)
	fmt.Fprintf(tw, "Play period:\tNTSC %v, PAL %v\n", nsf.PlayPeriod(hwdefs.NTSC), nsf.PlayPeriod(hwdefs.PAL))
	fmt.Fprintf(tw, "Bankswitching:\t%s\n", banks)
	fmt.Fprintf(tw, "Expansion audio:\t%s\n", chips)
	fmt.Fprintf(tw, "Program data:\t%d bytes\n", len(nsf.Data))

	return tw.Flush()
}
