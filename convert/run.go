package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pbc/archive"
	"pbc/collector"
	"pbc/config"
	"pbc/state"
)

// Run is the convert sub-command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite, env.Inventory = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("inventory")
	env.Configure(env.Cfg, cmd.Int("jobs"))

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Int("jobs", env.Jobs))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, env, log)
}

// processor converts documents in parallel, limited by number of jobs.
// Failure of a single document does not stop processing, all failures are
// reported together at the end.
type processor struct {
	env *state.LocalEnv
	log *zap.Logger
	dst string

	g errgroup.Group

	mu        sync.Mutex
	errs      error
	documents int
	bases     map[string]string
}

func newProcessor(dst string, env *state.LocalEnv, log *zap.Logger) *processor {
	p := &processor{env: env, log: log, dst: dst, bases: make(map[string]string)}
	p.g.SetLimit(max(env.Jobs, 1))
	return p
}

func (p *processor) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = multierr.Append(p.errs, err)
}

// reserve claims output base for a document, documents of a single run never
// share output files.
func (p *processor) reserve(base, owner string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if other, ok := p.bases[base]; ok {
		return fmt.Errorf("output name %s is already used by document %s", base, other)
	}
	p.bases[base] = owner
	return nil
}

// wait blocks until all scheduled documents are done.
func (p *processor) wait() error {
	_ = p.g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.documents == 0 && p.errs == nil {
		p.log.Debug("Nothing to process")
	}
	if n := len(multierr.Errors(p.errs)); n > 0 {
		return fmt.Errorf("%d of %d document(s) failed: %w", n, p.documents, p.errs)
	}
	return nil
}

// process handles the core conversion logic independently of CLI framework. It
// determines the input type (directory, archive, or single batch file) and
// processes accordingly.
func process(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger) (err error) {
	p := newProcessor(dst, env, log)
	defer func() {
		err = multierr.Append(err, p.wait())
	}()

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := p.processDir(ctx, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := p.processArchive(ctx, head, filepath.ToSlash(tail), ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		batch, err := isBatchFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if batch && len(tail) == 0 {
			// batch cannot have tail
			data, err := os.ReadFile(head)
			if err != nil {
				return fmt.Errorf("unable to read batch: %w", err)
			}
			p.processBatch(ctx, data, filepath.Base(head))
			break
		}
		return fmt.Errorf("input was not recognized as batch or archive (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding batch files and archives and
// processes them. Symbolic links are not followed.
func (p *processor) processDir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := p.processArchive(ctx, path, "", filepath.Dir(rel)); err != nil {
				p.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			return nil
		}

		batch, err := isBatchFile(path)
		if err != nil {
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !batch {
			p.log.Debug("Skipping file, not recognized as batch or archive", zap.String("file", path))
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			p.log.Error("Unable to read batch", zap.String("file", path), zap.Error(err))
			p.fail(err)
			return nil
		}
		p.processBatch(ctx, data, rel)
		return nil
	})
}

// processArchive walks all batch files inside archive located under "pathIn"
// and processes them. "pathOut" is archive location relative to the source
// directory.
func (p *processor) processArchive(ctx context.Context, path, pathIn, pathOut string) error {
	isJSON := archive.HasSuffix(".json")
	match := func(name string) bool {
		return isJSON(name) && (pathIn == "" || name == pathIn || strings.HasPrefix(name, strings.TrimSuffix(pathIn, "/")+"/"))
	}

	return archive.Walk(path, match, func(arc string, e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := e.ReadAll()
		if err != nil {
			p.log.Error("Unable to read batch in archive", zap.String("archive", arc), zap.String("file", e.Name), zap.Error(err))
			p.fail(err)
			return nil
		}
		if !isBatchData(data) {
			p.log.Debug("Skipping file, not recognized as batch", zap.String("archive", arc), zap.String("file", e.Name))
			return nil
		}
		p.processBatch(ctx, data, filepath.Join(pathOut, filepath.FromSlash(e.Name)))
		return nil
	})
}

// processBatch decodes batch and schedules its documents. "src" is the source
// path relative to the original path, always including file name.
func (p *processor) processBatch(ctx context.Context, data []byte, src string) {
	b, err := decodeBatch(data, p.env.Cfg.Conversion.ValidateInput)
	if err != nil {
		p.log.Error("Unable to decode batch", zap.String("from", src), zap.Error(err))
		p.fail(fmt.Errorf("%s: %w", src, err))
		return
	}

	for i := range b.Documents {
		doc := &b.Documents[i]

		p.mu.Lock()
		p.documents++
		p.mu.Unlock()

		p.g.Go(func() error {
			if err := p.processDocument(ctx, doc, src, i); err != nil {
				p.log.Error("Unable to convert document", zap.String("from", src), zap.String("id", doc.ID), zap.Error(err))
				p.fail(fmt.Errorf("%s [%s]: %w", src, doc.ID, err))
			}
			return nil
		})
	}
}

// newDocument prepares conversion pipeline configured for this run.
func newDocument(env *state.LocalEnv, log *zap.Logger) *Document {
	conv := &env.Cfg.Conversion

	bps := make([]Breakpoint, 0, len(conv.Breakpoints))
	for _, bp := range conv.Breakpoints {
		bps = append(bps, Breakpoint{Name: bp.Name, Query: bp.Query})
	}
	return NewDocument(log,
		WithPresets(env.Presets),
		WithBreakpoints(bps...),
		WithRenderPath(conv.RenderPath),
		WithCollectorOptions(
			collector.WithPrefix(conv.ClassPrefix),
			collector.WithHashLength(conv.HashLength),
			collector.WithFontAliases(env.Cfg.Theme.FontAliases),
		),
	)
}

type artifact struct {
	ext  string
	data []byte
}

// processDocument converts single document and writes its artifacts.
func (p *processor) processDocument(ctx context.Context, doc *Source, src string, index int) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := p.env
	log := p.log.With(zap.String("id", doc.ID))

	var base string

	log.Info("Conversion starting", zap.String("from", src), zap.Int("elements", countElements(doc.Elements)))
	defer func(start time.Time) {
		// one broken document should not stop the whole batch
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", base), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", base))
		}
	}(time.Now())

	base = buildOutputBase(doc, src, index, p.dst, env)
	if err := p.reserve(base, fmt.Sprintf("%s [%s]", src, doc.ID)); err != nil {
		return err
	}

	d := newDocument(env, log)
	d.AddKit(doc.Kit)
	res := d.Result(doc.ID, doc.Title, d.ConvertAll(doc.Elements))

	fonts, err := json.MarshalIndent(res.Fonts, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode font usage: %w", err)
	}
	artifacts := []artifact{
		{extMarkup, []byte(res.Markup)},
		{extStylesheet, []byte(res.Stylesheet)},
		{extFonts, fonts},
	}

	var inventory []byte
	if env.Inventory || env.Rpt != nil {
		inventory = []byte(d.Collector().DumpInventory())
	}
	if env.Inventory {
		artifacts = append(artifacts, artifact{extInventory, inventory})
	}

	if err := writeArtifacts(base, artifacts, env.Overwrite, log); err != nil {
		return err
	}

	// Store conversion result for debugging
	if env.Rpt != nil {
		id := config.CleanFileName(doc.ID)
		env.Rpt.StoreData(fmt.Sprintf("result-%s%s", id, extMarkup), []byte(res.Markup))
		env.Rpt.StoreData(fmt.Sprintf("stylesheet-%s%s", id, extStylesheet), []byte(res.Stylesheet))
		env.Rpt.StoreData(fmt.Sprintf("inventory-%s%s", id, extInventory), inventory)
	}
	return nil
}

// writeArtifacts writes all document files. Existing files are only replaced
// when overwrite is requested, nothing is written otherwise.
func writeArtifacts(base string, artifacts []artifact, overwrite bool, log *zap.Logger) error {
	for _, a := range artifacts {
		name := base + a.ext
		if _, err := os.Stat(name); err == nil {
			if !overwrite {
				return fmt.Errorf("output file already exists: %s", name)
			}
			log.Warn("Overwriting existing file", zap.String("file", name))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	for _, a := range artifacts {
		if err := os.WriteFile(base+a.ext, a.data, 0644); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
	}
	return nil
}
