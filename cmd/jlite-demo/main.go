package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/shrek82/jlite/core"
	"github.com/shrek82/jlite/logger"
	"github.com/shrek82/jlite/snapshot"
)

var (
	rows      = flag.Int("rows", 1000000, "number of rows to insert")
	keepBelow = flag.Float64("keep", 20, "rows with Content above this value are deleted before saving")
	out       = flag.String("out", "backup.db", "snapshot target: a path, file:// URL or s3://bucket/key")
	region    = flag.String("s3-region", "", "S3 region for s3:// targets")
	endpoint  = flag.String("s3-endpoint", "", "S3-compatible endpoint for s3:// targets")
	verbose   = flag.Bool("v", false, "log every statement")
	jsonLog   = flag.Bool("json", false, "log in JSON format")
	errLog    = flag.String("errlog", "", "also append error entries to this file")
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Parse()

	var errOut io.Writer
	if *errLog != "" {
		f, err := os.OpenFile(*errLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("open error log: %v", err)
		}
		defer f.Close()
		errOut = f
	}
	l := newLogger(os.Stderr, errOut)

	if err := run(l); err != nil {
		l.Error("demo failed: %v", err)
		var ee *core.EngineError
		if errors.As(err, &ee) {
			log.Fatalf("Error: %s => %d", ee.Message, ee.ExtendedCode)
		}
		log.Fatalf("Error: %v", err)
	}
}

// newLogger writes to out at the level picked by -v, and copies error
// entries to errOut when it is set.
func newLogger(out, errOut io.Writer) logger.Logger {
	l := logger.NewStdLogger()
	l.SetOutput(out)
	if !*verbose {
		l.SetLevel(logger.LogLevelWarn)
	}
	if *jsonLog {
		l.SetFormat(logger.LogFormatJSON)
	}
	if errOut != nil {
		l.SetLevelOutput(logger.LogLevelError, errOut)
	}
	return l
}

func run(l logger.Logger) error {
	conn, err := core.Open(core.MemoryTarget, &core.Options{Logger: l})
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Execute("create table Things (Content real)"); err != nil {
		return err
	}

	insert, err := conn.Prepare("insert into Things values (?)")
	if err != nil {
		return err
	}
	defer insert.Close()

	if err := conn.Execute("begin"); err != nil {
		return err
	}
	for i := 0; i < *rows; i++ {
		if err := insert.Reset(i); err != nil {
			return err
		}
		if err := insert.Execute(); err != nil {
			return err
		}
	}
	if err := conn.Execute("commit"); err != nil {
		return err
	}

	// Free pages are dropped by vacuum so the snapshot only carries live rows.
	if err := conn.Execute("delete from Things where Content > ?", *keepBelow); err != nil {
		return err
	}
	if err := conn.Execute("vacuum"); err != nil {
		return err
	}

	cfg := &snapshot.S3Config{Region: *region, Endpoint: *endpoint}
	if err := snapshot.Save(context.Background(), conn, *out, cfg); err != nil {
		return err
	}

	count, err := conn.Prepare("select count(*) from Things")
	if err != nil {
		return err
	}
	defer count.Close()
	if _, err := count.Step(); err != nil {
		return err
	}
	fmt.Printf("Rows: %d\n", count.Int(0))
	fmt.Printf("Saved to %s\n", *out)
	return nil
}
