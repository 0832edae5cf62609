package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wavesplatform/binstream/pkg/binstream"
	"github.com/wavesplatform/binstream/pkg/bytetree"
	"github.com/wavesplatform/binstream/pkg/digest"
	"github.com/wavesplatform/binstream/pkg/logging"
)

var version = "v0.0.0"

var formats = []string{"text", "json", "cbor", "diag"}

type config struct {
	format      string
	hash        string
	bigEndian   bool
	maxDepth    int
	logging     logging.Parameters
	showHelp    bool
	showVersion bool
	file        string
}

func parseConfig(args []string) (*config, *flag.FlagSet, error) {
	c := new(config)
	fs := flag.NewFlagSet("bytetree", flag.ContinueOnError)
	fs.StringVarP(&c.format, "format", "f", "text",
		fmt.Sprintf("Output format, one of: %s", strings.Join(formats, ", ")))
	fs.StringVar(&c.hash, "hash", "",
		fmt.Sprintf("Print the digest of the file, one of: %s", strings.Join(digest.Names(), ", ")))
	fs.BoolVar(&c.bigEndian, "big-endian", false, "Read header words in big-endian byte order")
	fs.IntVar(&c.maxDepth, "max-depth", bytetree.DefaultMaxDepth, "Maximum nesting of objects")
	fs.BoolVarP(&c.showHelp, "help", "h", false, "Print usage information (this message) and quit")
	fs.BoolVarP(&c.showVersion, "version", "v", false, "Print version information and quit")
	c.logging.Initialize(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if c.showHelp || c.showVersion {
		return c, fs, nil
	}
	if err := c.logging.Parse(); err != nil {
		return nil, fs, err
	}
	if !slices.Contains(formats, c.format) {
		return nil, fs, errors.Errorf("unsupported format %q", c.format)
	}
	if c.hash != "" {
		if _, _, err := digest.Lookup(c.hash); err != nil {
			return nil, fs, err
		}
		if c.format == "cbor" {
			return nil, fs, errors.New("digest cannot be combined with cbor output")
		}
	}
	if fs.NArg() != 1 {
		return nil, fs, errors.New("exactly one file must be specified")
	}
	c.file = fs.Arg(0)
	return c, fs, nil
}

func main() {
	c, fs, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid arguments: %v\n\n", err)
		showUsageAndExit(fs, 2)
	}
	if c.showHelp {
		showUsageAndExit(fs, 0)
	}
	if c.showVersion {
		fmt.Printf("ByteTree inspector %s\n", version)
		os.Exit(0)
	}

	logger := logging.SetupSimpleLogger(zapLevel(c.logging.Level))
	defer func() {
		_ = logger.Sync()
	}()
	slogger := slog.New(logging.DefaultHandler(os.Stderr, c.logging))

	if err := run(c, afero.NewOsFs(), os.Stdout, slogger); err != nil {
		zap.S().Errorf("Failed to inspect '%s': %v", c.file, err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(c *config, fs afero.Fs, out io.Writer, logger *slog.Logger) error {
	ok, err := afero.Exists(fs, c.file)
	if err != nil {
		return errors.Wrap(err, "failed to check file")
	}
	if !ok {
		return errors.New("file does not exist")
	}
	e := binstream.LittleEndian
	if c.bigEndian {
		e = binstream.BigEndian
	}
	s, err := binstream.OpenFileStream(fs, c.file, binstream.WithEndianness(e), binstream.WithLogger(logger))
	if err != nil {
		return err
	}
	ref := binstream.NewStreamRef(s)
	logger.Debug("Stream loaded", logging.Stream("ref", ref), slog.String("path", s.Path()))

	var sum string
	if c.hash != "" {
		_, newHash, err := digest.Lookup(c.hash)
		if err != nil {
			return err
		}
		b, err := digest.Stream(ref, newHash())
		if err != nil {
			return err
		}
		sum = strings.ToLower(c.hash) + ":" + hex.EncodeToString(b)
	}

	r := binstream.NewReader(ref)
	ver, root, err := bytetree.Decode(r, bytetree.WithMaxDepth(c.maxDepth))
	if err != nil {
		return errors.Wrap(err, "failed to decode tree")
	}
	if !r.Empty() {
		zap.S().Warnf("%d trailing bytes after the tree", r.BytesRemaining())
	}
	return export(c.format, ver, root, sum, out)
}

// export writes the tree in the requested format. A non-empty sum is printed as a leading line,
// or as the "digest" member of the JSON document.
func export(format string, ver uint32, root bytetree.Node, sum string, out io.Writer) error {
	if sum != "" && format != "json" {
		if _, err := fmt.Fprintln(out, sum); err != nil {
			return err
		}
	}
	switch format {
	case "text":
		if _, err := fmt.Fprintf(out, "version: %d\n", ver); err != nil {
			return err
		}
		return root.Format(out)
	case "json":
		doc := struct {
			Version uint32        `json:"version"`
			Digest  string        `json:"digest,omitempty"`
			Root    bytetree.Node `json:"root"`
		}{ver, sum, root}
		return json.NewEncoder(out).Encode(doc)
	case "cbor":
		b, err := bytetree.ToCBOR(root)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	case "diag":
		b, err := bytetree.ToCBOR(root)
		if err != nil {
			return err
		}
		d, err := bytetree.DiagnoseCBOR(b)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, d)
		return err
	default:
		return errors.Errorf("unsupported format %q", format)
	}
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func showUsageAndExit(fs *flag.FlagSet, code int) {
	fmt.Println("usage: bytetree [flags] FILE")
	fs.PrintDefaults()
	os.Exit(code)
}
