package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	structbuf "github.com/wippyai/structbuf"
	"github.com/wippyai/structbuf/binding"
	"github.com/wippyai/structbuf/buffer"
	"github.com/wippyai/structbuf/report"
	"github.com/wippyai/structbuf/schema"
)

type options struct {
	schemaFile string
	structName string
	dataFile   string
	endian     string
	offset     int
	layoutOnly bool
	subs       bool
	plain      bool
}

func main() {
	var (
		schemaFile  = flag.String("schema", "", "Path to YAML schema file")
		structName  = flag.String("struct", "", "Struct to bind (default: last declared)")
		dataFile    = flag.String("data", "", "Binary file to inspect")
		offset      = flag.Int("offset", 0, "Byte offset of the struct in the data file")
		endian      = flag.String("endian", os.Getenv("STRUCTBUF_ENDIANNESS"), "Byte order override: native, little, big, network")
		layoutOnly  = flag.Bool("layout", false, "Print the layout table and exit")
		subs        = flag.Bool("subs", false, "Include nested struct tables")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: structview -schema <file.yaml> [-struct name] -layout [-subs]")
		fmt.Fprintln(os.Stderr, "       structview -schema <file.yaml> -data <file> [-offset n] [-endian e]")
		fmt.Fprintln(os.Stderr, "       structview -schema <file.yaml> -data <file> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		schema.SetLogger(log)
		binding.SetLogger(log)
	}

	opts := options{
		schemaFile: *schemaFile,
		structName: *structName,
		dataFile:   *dataFile,
		endian:     *endian,
		offset:     *offset,
		layoutOnly: *layoutOnly,
		subs:       *subs,
		plain:      !term.IsTerminal(int(os.Stdout.Fd())),
	}

	if *interactive {
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, w io.Writer) error {
	l, err := loadLayout(opts)
	if err != nil {
		return err
	}

	if opts.layoutOnly || opts.dataFile == "" {
		_, err := io.WriteString(w, report.Render(report.Describe(l, opts.subs), report.Options{Plain: opts.plain}))
		return err
	}

	m, err := buffer.Map(opts.dataFile, 0, false)
	if err != nil {
		return err
	}
	defer m.Close()

	inst, err := bind(l, m, opts)
	if err != nil {
		return err
	}

	if opts.subs {
		info := report.DescribeInstance(inst, true)
		if _, err := io.WriteString(w, report.Render(info, report.Options{Plain: opts.plain})+"\n"); err != nil {
			return err
		}
	}

	node, err := inst.ToYAML()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

func loadLayout(opts options) (*schema.Layout, error) {
	data, err := os.ReadFile(opts.schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	set, err := schema.LoadYAML(data, nil)
	if err != nil {
		return nil, err
	}

	if opts.structName == "" {
		if l := set.Last(); l != nil {
			return l, nil
		}
		return nil, fmt.Errorf("schema %s declares no structs", opts.schemaFile)
	}
	l, ok := set.Lookup(opts.structName)
	if !ok {
		return nil, fmt.Errorf("struct %q not found, schema declares %v", opts.structName, set.Names())
	}
	return l, nil
}

func bind(l *schema.Layout, buf structbuf.Buffer, opts options) (*binding.Instance, error) {
	bindOpts := []binding.Option{binding.WithOffset(opts.offset)}
	if opts.endian != "" {
		e, err := schema.ParseEndianness(opts.endian)
		if err != nil {
			return nil, err
		}
		bindOpts = append(bindOpts, binding.WithEndianness(e))
	}
	return binding.Bind(l, buf, bindOpts...)
}
