package dfxml

import (
	"encoding/xml"
	"os"
	"os/user"
	"strconv"
	"time"

	"github.com/ostafen/mediadecoder/pkg/sysinfo"
)

const XmlOutputVersion = "1.0"

var DefaultMetadata = Metadata{
	Xmlns:    "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML",
	XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
	XmlnsDC:  "http://purl.org/dc/elements/1.1/",
	Type:     "Segment Report",
}

// DFXMLHeader is the root element of a report. Its fileobjects are written
// separately, one per byte run of interest.
type DFXMLHeader struct {
	XMLName   xml.Name `xml:"dfxml"`
	XmlOutput string   `xml:"xmloutputversion,attr,omitempty"`
	Metadata  Metadata `xml:"metadata"`
	Creator   Creator  `xml:"creator"`
	Source    Source   `xml:"source"`
}

type Metadata struct {
	Xmlns    string `xml:"xmlns,attr"`
	XmlnsXsi string `xml:"xmlns:xsi,attr"`
	XmlnsDC  string `xml:"xmlns:dc,attr"`
	Type     string `xml:"dc:type"`
}

// Creator describes the program that produced the report.
type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Source is the image file the byte runs refer to.
type Source struct {
	ImageFilename string `xml:"image_filename"`
	ImageFormat   string `xml:"image_format,omitempty"`
	ImageSize     uint64 `xml:"image_size"`
}

// FileObject is a named region of the source image, such as a JPEG segment.
type FileObject struct {
	XMLName  xml.Name `xml:"fileobject"`
	Filename string   `xml:"filename"`
	FileSize uint64   `xml:"filesize"`
	ByteRuns ByteRuns `xml:"byte_runs"`
}

type ByteRuns struct {
	Runs []ByteRun `xml:"byte_run"`
}

// ByteRun is a contiguous extent of the source image.
type ByteRun struct {
	Offset    uint64 `xml:"offset,attr"`     // offset within the file object
	ImgOffset uint64 `xml:"img_offset,attr"` // offset within the image
	Length    uint64 `xml:"len,attr"`
}

// SingleRun returns a FileObject made of one byte run starting at imgOffset.
func SingleRun(name string, imgOffset, length uint64) FileObject {
	return FileObject{
		Filename: name,
		FileSize: length,
		ByteRuns: ByteRuns{
			Runs: []ByteRun{{
				ImgOffset: imgOffset,
				Length:    length,
			}},
		},
	}
}

// GetExecEnv describes the host the report is generated on.
func GetExecEnv() ExecEnv {
	sinfo, err := sysinfo.Stat()
	if err != nil {
		sinfo = &sysinfo.SysUnknown
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	uid := 0
	if u, err := user.Current(); err == nil {
		if id, err := strconv.Atoi(u.Uid); err == nil {
			uid = id
		}
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    sinfo.Machine,
		UID:     uid,
		Start:   time.Now().UTC().Format(time.RFC3339),
	}
}
