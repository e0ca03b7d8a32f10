package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seiflotfy/huffpack"
	"github.com/seiflotfy/huffpack/internal/textio"
)

const progName = "huffpack"

var log = logging.MustGetLogger("huffpack/cli")

const usage = `usage:
  huffpack -c  [flags] <plain> <codebook> <encoded>
  huffpack -d  [flags] <encoded> <codebook> <decoded>
  huffpack -ca [flags] <plain> <archive>
  huffpack -da [flags] <archive> <decoded>

flags:
`

type options struct {
	encoding string
	verbose  bool
	quiet    bool
}

func startLogging(level logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatter := logging.MustStringFormatter("%{level:8s} %{module:-14s} | %{message}")
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet(progName, flag.ContinueOnError)
	flags.SetOutput(stderr)
	var opts options
	flags.StringVar(&opts.encoding, "encoding", textio.DefaultEncoding, "text encoding of plain and decoded files (utf-8, utf-16, utf-16le, utf-16be, latin-1)")
	flags.BoolVar(&opts.verbose, "v", false, "log pipeline details")
	flags.BoolVar(&opts.quiet, "q", false, "do not print the size and timing report")
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	if len(args) == 0 {
		flags.Usage()
		return 2
	}
	mode, err := huffpack.ParseMode(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		flags.Usage()
		return 2
	}
	if err := flags.Parse(args[1:]); err != nil {
		return 2
	}

	if opts.verbose {
		startLogging(logging.DEBUG)
	} else {
		startLogging(logging.WARNING)
	}

	paths := flags.Args()
	want := 3
	if mode == huffpack.ModeCompressArchive || mode == huffpack.ModeDecompressArchive {
		want = 2
	}
	if len(paths) != want {
		fmt.Fprintf(stderr, "%s: %s expects %d paths, got %d\n", progName, mode, want, len(paths))
		flags.Usage()
		return 2
	}

	start := time.Now()
	var written int
	switch mode {
	case huffpack.ModeCompress:
		written, err = compress(paths[0], paths[1], paths[2], opts)
	case huffpack.ModeDecompress:
		written, err = decompress(paths[0], paths[1], paths[2], opts)
	case huffpack.ModeCompressArchive:
		written, err = compressArchive(paths[0], paths[1], opts)
	case huffpack.ModeDecompressArchive:
		written, err = decompressArchive(paths[0], paths[1], opts)
	}
	if err != nil {
		log.Errorf("%s failed: %v", mode, err)
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return 1
	}

	if !opts.quiet {
		p := message.NewPrinter(language.English)
		if mode == huffpack.ModeCompress || mode == huffpack.ModeCompressArchive {
			p.Fprintf(stdout, "Size of compressed file is: %d bytes (%s)\n", written, datasize.ByteSize(written).HumanReadable())
		} else {
			p.Fprintf(stdout, "Size of decompressed file is: %d bytes (%s)\n", written, datasize.ByteSize(written).HumanReadable())
		}
		p.Fprintf(stdout, "Time passed: %.5f sec\n", time.Since(start).Seconds())
	}
	return 0
}

func encodeFile(plainPath string, opts options) (*huffpack.Archive, error) {
	text, err := textio.ReadFile(plainPath, opts.encoding)
	if err != nil {
		return nil, err
	}
	archive, err := huffpack.NewEncoder().Encode(text)
	if err != nil {
		return nil, err
	}
	log.Infof("encoded %d symbols with %d codes into %d bits", len(text), archive.Codebook.Len(), archive.BitLen())
	return archive, nil
}

// compress writes the codebook file and the raw packed data, and returns the
// packed size in bytes.
func compress(plainPath, codebookPath, encodedPath string, opts options) (int, error) {
	archive, err := encodeFile(plainPath, opts)
	if err != nil {
		return 0, err
	}

	var cb bytes.Buffer
	if err := archive.WriteCodebookTo(&cb); err != nil {
		return 0, err
	}
	if err := os.WriteFile(codebookPath, cb.Bytes(), 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(encodedPath, archive.Data, 0o644); err != nil {
		return 0, err
	}
	return len(archive.Data), nil
}

func decompress(encodedPath, codebookPath, decodedPath string, opts options) (int, error) {
	cbFile, err := os.Open(codebookPath)
	if err != nil {
		return 0, err
	}
	defer cbFile.Close()
	dataFile, err := os.Open(encodedPath)
	if err != nil {
		return 0, err
	}
	defer dataFile.Close()

	archive, err := huffpack.ReadSplit(cbFile, dataFile)
	if err != nil {
		return 0, fmt.Errorf("load %s and %s: %w", encodedPath, codebookPath, err)
	}
	return writeDecoded(archive, decodedPath, opts)
}

func compressArchive(plainPath, archivePath string, opts options) (int, error) {
	archive, err := encodeFile(plainPath, opts)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	n, err := archive.WriteTo(&buf)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(archivePath, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return int(n), nil
}

func decompressArchive(archivePath, decodedPath string, opts options) (int, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var archive huffpack.Archive
	if _, err := archive.ReadFrom(f); err != nil {
		return 0, fmt.Errorf("load %s: %w", archivePath, err)
	}
	return writeDecoded(&archive, decodedPath, opts)
}

func writeDecoded(archive *huffpack.Archive, decodedPath string, opts options) (int, error) {
	text, err := archive.Decode()
	if err != nil {
		if errors.Is(err, huffpack.ErrMalformedStream) {
			log.Warningf("stream does not match its codebook (%d codes, %d bits)", archive.Codebook.Len(), archive.BitLen())
		}
		return 0, err
	}
	if err := textio.WriteFile(decodedPath, text, opts.encoding); err != nil {
		return 0, err
	}
	info, err := os.Stat(decodedPath)
	if err != nil {
		return 0, err
	}
	return int(info.Size()), nil
}
