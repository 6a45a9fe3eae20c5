/*
DESCRIPTION
  deinterlace reads a YUV4MPEG2 stream, deinterlaces it with the
  motion-adaptive filter from the filter package, and writes the
  progressive result as a YUV4MPEG2 stream.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package deinterlace is a command line YUV4MPEG2 deinterlacer.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/deinterlace/container/y4m"
	"github.com/ausocean/deinterlace/filter"
	"github.com/ausocean/deinterlace/frame"
	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath      = "deinterlace.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Output pool buffer configuration.
const (
	poolCapacity    = 50 << 20 // 50MB.
	poolWriteTime   = 5 * time.Second
	poolReadTimeout = 100 * time.Millisecond
)

func main() {
	inPath := flag.String("in", "-", "input YUV4MPEG2 file, - for stdin")
	outPath := flag.String("out", "-", "output YUV4MPEG2 file, - for stdout")
	options := flag.String("options", "", "deinterlacer options as mode:parity:autoEnable")
	verbosity := flag.String("verbosity", "Info", "log verbosity: Debug, Info, Warning or Error")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	log := logging.New(parseVerbosity(*verbosity), io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting deinterlace", "version", version)

	in := os.Stdin
	if *inPath != "-" {
		var err error
		in, err = os.Open(*inPath)
		if err != nil {
			log.Fatal("could not open input", "error", err.Error())
		}
		defer in.Close()
	}

	out := os.Stdout
	if *outPath != "-" {
		var err error
		out, err = os.Create(*outPath)
		if err != nil {
			log.Fatal("could not create output", "error", err.Error())
		}
		defer out.Close()
	}

	err := run(in, out, *options, log)
	if err != nil {
		log.Fatal("deinterlace failed", "error", err.Error())
	}
	log.Info("deinterlace complete")
}

// run wires decoder -> deinterlacer -> encoder and drives the filter's
// pull interface until the stream is drained.
func run(in io.Reader, out io.Writer, options string, log logging.Logger) error {
	dec, err := y4m.NewDecoder(in, log)
	if err != nil {
		return err
	}

	opts := filter.ParseOptions(options)

	// Field-rate output doubles the frame rate.
	rateN := dec.RateN
	if opts.Mode&1 == 1 {
		rateN *= 2
	}
	buf := &bytes.Buffer{}
	enc, err := y4m.NewEncoder(buf, dec.Format, dec.Width, dec.Height, rateN, dec.RateD, log)
	if err != nil {
		return err
	}

	// Size pool elements to hold a whole encoded frame.
	elemSize := dec.Width*dec.Height*dec.Format.BytesPerSample()*4 + 64
	sink := newPoolSink(enc, buf, out, elemSize, log)
	src := &y4mSource{dec: dec}

	di, err := filter.NewDeinterlacer(src, sink, dec.Format, dec.Width, dec.Height, options, log)
	if err != nil {
		sink.close()
		return err
	}
	defer di.Close()

	for {
		if di.PollFrame(true) == 0 {
			break
		}
		err := di.RequestFrame()
		if err == filter.ErrEndOfStream {
			break
		}
		if err != nil {
			sink.close()
			return err
		}
	}
	if src.err != nil {
		sink.close()
		return src.err
	}
	return sink.close()
}

// parseVerbosity maps a verbosity flag value to a logging level,
// falling back to Info for anything unrecognised.
func parseVerbosity(v string) int8 {
	switch v {
	case "Debug":
		return logging.Debug
	case "Info":
		return logging.Info
	case "Warning":
		return logging.Warning
	case "Error":
		return logging.Error
	default:
		return logging.Info
	}
}

// y4mSource adapts a y4m.Decoder to the filter.Source interface,
// holding at most one decoded frame of readahead for Poll.
type y4mSource struct {
	dec     *y4m.Decoder
	pending *frame.Frame
	eof     bool
	err     error
}

// Poll reports whether a frame can be supplied without blocking on
// anything but the already-open stream, reading ahead one frame to
// find out.
func (s *y4mSource) Poll(flush bool) int {
	if s.pending != nil {
		return 1
	}
	if s.eof || s.err != nil {
		return 0
	}
	f, err := s.dec.Decode()
	if err == io.EOF {
		s.eof = true
		return 0
	}
	if err != nil {
		s.err = err
		return 0
	}
	s.pending = f
	return 1
}

// Request hands over the readahead frame, or decodes a fresh one.
func (s *y4mSource) Request() (*frame.Frame, error) {
	if s.pending != nil {
		f := s.pending
		s.pending = nil
		return f, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.eof {
		return nil, io.EOF
	}
	return s.dec.Decode()
}

// poolSink adapts a y4m.Encoder to the filter.Sink interface. Encoded
// frames are staged through a pool buffer and written to the
// destination by a separate output routine, so a slow destination does
// not stall the filter.
type poolSink struct {
	enc  *y4m.Encoder
	buf  *bytes.Buffer
	pool *pool.Buffer
	dst  io.Writer
	out  *frame.Frame
	done chan struct{}
	wg   sync.WaitGroup
	log  logging.Logger
	err  error
}

func newPoolSink(enc *y4m.Encoder, buf *bytes.Buffer, dst io.Writer, elemSize int, log logging.Logger) *poolSink {
	s := &poolSink{
		enc:  enc,
		buf:  buf,
		dst:  dst,
		done: make(chan struct{}),
		log:  log,
	}
	pool.MaxAlloc(2 * elemSize)
	s.pool = pool.NewBuffer(poolCapacity/elemSize+1, elemSize, poolWriteTime)
	s.wg.Add(1)
	go s.output()
	return s
}

// output drains the pool buffer to the destination.
func (s *poolSink) output() {
	defer s.wg.Done()
	for {
		chunk, err := s.pool.Next(poolReadTimeout)
		switch err {
		case nil, io.EOF:
		case pool.ErrTimeout:
			select {
			case <-s.done:
				return
			default:
				continue
			}
		default:
			s.log.Error("unexpected pool error", "error", err.Error())
			continue
		}
		if chunk == nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		_, err = s.dst.Write(chunk.Bytes())
		if err != nil {
			s.err = err
			s.log.Error("could not write to destination", "error", err.Error())
		}
		chunk.Close()
	}
}

// StartFrame takes ownership of the produced frame.
func (s *poolSink) StartFrame(f *frame.Frame) error {
	s.out = f
	return nil
}

func (s *poolSink) DrawSlice(y, h int) error { return nil }

// EndFrame encodes the completed frame and stages its bytes for the
// output routine.
func (s *poolSink) EndFrame() error {
	s.buf.Reset()
	err := s.enc.Encode(s.out)
	s.out.Release()
	s.out = nil
	if err != nil {
		return err
	}
	_, err = s.pool.Write(s.buf.Bytes())
	if err == nil {
		s.pool.Flush()
	}
	return err
}

// close waits for staged output to drain.
func (s *poolSink) close() error {
	close(s.done)
	s.wg.Wait()
	return s.err
}
