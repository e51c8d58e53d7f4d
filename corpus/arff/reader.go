package arff

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/corpus"
	"github.com/hupe1980/strkernel/resource"
)

// ParseError reports malformed input with its 1-based line number.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("arff: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	// ErrNoData is returned when the input has no @data section.
	ErrNoData = errors.New("arff: missing @data section")
	// ErrNoAttributes is returned when the header declares no attributes.
	ErrNoAttributes = errors.New("arff: no attributes declared")
)

// Load reads the ARFF blob name from store.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*corpus.Dataset, error) {
	o := applyOptions(opts)

	rc, err := blobstore.OpenReader(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("arff: open %s: %w", name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if o.rc != nil {
		r = resource.NewRateLimitedReader(ctx, rc, o.rc)
	}

	ds, err := read(r, o)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("corpus loaded",
		"name", name,
		"relation", ds.Relation,
		"attributes", ds.FieldCount(),
		"instances", ds.Size(),
	)
	return ds, nil
}

// Read parses an ARFF document.
func Read(r io.Reader, opts ...Option) (*corpus.Dataset, error) {
	return read(r, applyOptions(opts))
}

type parser struct {
	opts     options
	line     int
	relation string
	attrs    []corpus.Attribute
	labels   []map[string]int
	ds       *corpus.Dataset
}

func read(r io.Reader, o options) (*corpus.Dataset, error) {
	p := &parser{opts: o}
	br := bufio.NewReader(r)
	inData := false

	for {
		raw, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if raw == "" && errors.Is(err, io.EOF) {
			break
		}
		p.line++

		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '%' {
			if errors.Is(err, io.EOF) {
				break
			}
			continue
		}

		if inData {
			if perr := p.dataLine(line); perr != nil {
				return nil, &ParseError{Line: p.line, Err: perr}
			}
		} else {
			done, perr := p.headerLine(line)
			if perr != nil {
				return nil, &ParseError{Line: p.line, Err: perr}
			}
			inData = done
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	if p.ds == nil {
		return nil, ErrNoData
	}
	return p.ds, nil
}

func (p *parser) headerLine(line string) (bool, error) {
	kw, rest, err := nextToken(line)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(kw.text) {
	case "@relation":
		name, _, err := nextToken(rest)
		if err != nil {
			return false, err
		}
		p.relation = name.text
		return false, nil
	case "@attribute":
		return false, p.attribute(rest)
	case "@data":
		return true, p.startData()
	default:
		return false, fmt.Errorf("unexpected header keyword %q", kw.text)
	}
}

func (p *parser) attribute(decl string) error {
	name, rest, err := nextToken(decl)
	if err != nil {
		return err
	}
	if name.text == "" {
		return errors.New("attribute without name")
	}
	attr := corpus.Attribute{Name: name.text}
	var labels map[string]int

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndexByte(rest, '}')
		if end < 0 {
			return fmt.Errorf("attribute %q: unterminated nominal list", name.text)
		}
		toks, err := splitFields(rest[1:end], ',')
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name.text, err)
		}
		attr.Type = corpus.FieldNominal
		labels = make(map[string]int, len(toks))
		for _, t := range toks {
			v := p.normalize(t.text)
			if v == "" && !t.quoted {
				continue
			}
			labels[v] = len(attr.Values)
			attr.Values = append(attr.Values, v)
		}
	} else {
		typ, more, err := nextToken(rest)
		if err != nil {
			return err
		}
		switch strings.ToLower(typ.text) {
		case "numeric", "real", "integer":
			attr.Type = corpus.FieldNumeric
		case "string":
			attr.Type = corpus.FieldString
		case "date":
			attr.Type = corpus.FieldDate
			format, _, err := nextToken(more)
			if err != nil {
				return err
			}
			attr.DateFormat = format.text
		case "relational":
			return fmt.Errorf("attribute %q: relational attributes are not supported", name.text)
		default:
			return fmt.Errorf("attribute %q: unknown type %q", name.text, typ.text)
		}
	}

	p.attrs = append(p.attrs, attr)
	p.labels = append(p.labels, labels)
	return nil
}

func (p *parser) startData() error {
	if len(p.attrs) == 0 {
		return ErrNoAttributes
	}
	p.ds = corpus.NewDataset(p.relation, p.attrs...)

	class := p.opts.classIndex
	if class == ClassLast {
		class = len(p.attrs) - 1
	}
	return p.ds.SetClassIndex(class)
}

func (p *parser) dataLine(line string) error {
	var (
		values []corpus.Value
		err    error
	)
	if line[0] == '{' {
		values, err = p.sparse(line)
	} else {
		values, err = p.dense(line)
	}
	if err != nil {
		return err
	}
	return p.ds.Add(corpus.NewInstance(values...))
}

func (p *parser) dense(line string) ([]corpus.Value, error) {
	toks, err := splitFields(line, ',')
	if err != nil {
		return nil, err
	}
	if len(toks) != len(p.attrs) {
		return nil, fmt.Errorf("got %d values, want %d", len(toks), len(p.attrs))
	}
	values := make([]corpus.Value, len(toks))
	for i, t := range toks {
		if values[i], err = p.value(i, t); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (p *parser) sparse(line string) ([]corpus.Value, error) {
	end := strings.LastIndexByte(line, '}')
	if end < 0 {
		return nil, errors.New("unterminated sparse row")
	}
	values := make([]corpus.Value, len(p.attrs))
	for i := range values {
		values[i] = p.sparseDefault(i)
	}

	rest := strings.TrimSpace(line[1:end])
	for rest != "" {
		idxTok, r, err := nextToken(rest)
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(idxTok.text)
		if err != nil || idx < 0 || idx >= len(p.attrs) {
			return nil, fmt.Errorf("invalid sparse index %q", idxTok.text)
		}

		var val token
		if r != "" && (r[0] == '\'' || r[0] == '"') {
			text, n, err := unquote(r)
			if err != nil {
				return nil, err
			}
			val = token{text: text, quoted: true}
			r = r[n:]
		} else {
			cut := strings.IndexByte(r, ',')
			if cut < 0 {
				cut = len(r)
			}
			val = token{text: strings.TrimSpace(r[:cut])}
			r = r[cut:]
		}
		if values[idx], err = p.value(idx, val); err != nil {
			return nil, err
		}

		r = strings.TrimLeft(r, " \t")
		if r != "" {
			if r[0] != ',' {
				return nil, errors.New("expected ',' between sparse entries")
			}
			r = strings.TrimLeft(r[1:], " \t")
		}
		rest = r
	}
	return values, nil
}

// sparseDefault is the value of an attribute omitted from a sparse row.
func (p *parser) sparseDefault(i int) corpus.Value {
	switch p.attrs[i].Type {
	case corpus.FieldNumeric:
		return corpus.NumericValue(0)
	case corpus.FieldNominal:
		if len(p.attrs[i].Values) > 0 {
			return corpus.Value{Text: p.attrs[i].Values[0]}
		}
		return corpus.MissingValue()
	case corpus.FieldString:
		return corpus.StringValue("")
	default:
		return corpus.MissingValue()
	}
}

func (p *parser) value(i int, t token) (corpus.Value, error) {
	if !t.quoted && t.text == "?" {
		return corpus.MissingValue(), nil
	}
	attr := p.attrs[i]
	switch attr.Type {
	case corpus.FieldNumeric:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return corpus.Value{}, fmt.Errorf("attribute %q: invalid number %q", attr.Name, t.text)
		}
		return corpus.NumericValue(f), nil
	case corpus.FieldNominal:
		v := p.normalize(t.text)
		idx, ok := p.labels[i][v]
		if !ok {
			return corpus.Value{}, fmt.Errorf("attribute %q: undeclared label %q", attr.Name, t.text)
		}
		return corpus.Value{Text: v, Num: float64(idx)}, nil
	case corpus.FieldString:
		return corpus.StringValue(p.normalize(t.text)), nil
	default:
		return corpus.Value{Text: t.text}, nil
	}
}

func (p *parser) normalize(s string) string {
	if !p.opts.normalize {
		return s
	}
	return p.opts.form.String(s)
}
