package ffmpeg

import (
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// UploadFile returns the stored file name for a clip id.
// Stored clips are always webm, conventionally served
// at /uploads/<id>.webm.
func UploadFile(id string) string {
	return id + ".webm"
}

// GetMeta extracts metadata parameter
func GetMeta(file *string, par string) (string, error) {
	cmd := exec.Command(
		"ffprobe",            //						call ffprobe
		"-loglevel", "error", //						set loglevel
		"-show_entries", "format="+par, // 				set parameter to write
		"-of", "default=noprint_wrappers=1:nokey=1", //	write only the result (without key)
		*file, //										target file
	)

	stdout, err := cmd.Output()

	if err != nil {
		return "", err
	}

	return strings.Trim(string(stdout), "\n"), nil
}

// Duration probes file duration. Webm written by a live
// encoder may carry no duration header ("N/A"), in that
// case returns zero without error.
func Duration(file string) (time.Duration, error) {
	s, err := GetMeta(&file, "duration")
	if err != nil {
		return 0, err
	}

	if s == "" || s == "N/A" {
		return 0, nil
	}

	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return time.Duration(sec * float64(time.Second)), nil
}
