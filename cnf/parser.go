package cnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/gophercount/config"
	"github.com/crillab/gophercount/number"
)

const noProblemLine = -1

// internal comparator code used only while parsing a PB clause, before
// canonicalisation collapses it to ComparatorGtEq.
const comparatorLtEq = 3

// Parse reads a DIMACS/WBO-family file from r under cfg and returns the
// populated Cnf. onWarning, if non-nil, is called once per dropped empty
// clause (spec.md §7's one non-fatal error kind); if nil, a "WARNING" line
// is written to cfg.Output instead, matching the original tool's behaviour.
//
// Grounded on Cnf::Cnf(string filePath) in
// original_source/addmc/src/logic.cc, restructured as a line-oriented
// bufio.Scanner parser in the style of crillab/gophersat's
// solver/parser.go and maxsat/parser.go.
func Parse(cfg *config.Config, r io.Reader, onWarning func(line int, text string)) (*Cnf, error) {
	p := &parser{
		cfg:              cfg,
		cnf:              newCnf(cfg),
		onWarning:        onWarning,
		problemLineIndex: noProblemLine,
	}
	return p.run(r)
}

type parser struct {
	cfg *config.Config
	cnf *Cnf

	onWarning func(line int, text string)

	problemLineIndex int
	wcnfFlag         bool
	hwcnfFlag        bool
}

func (p *parser) warn(lineIndex int, text string) {
	if p.onWarning != nil {
		p.onWarning(lineIndex, text)
		return
	}
	fmt.Fprintf(p.cfg.Output, "WARNING empty clause | line %d: %s\n", lineIndex, text)
}

func (p *parser) run(r io.Reader) (*Cnf, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineIndex := 0
	for scanner.Scan() {
		lineIndex++
		line := scanner.Text()
		if p.cfg.VerboseCNF >= config.VerboseRawInput {
			fmt.Fprintf(p.cfg.Output, "c line %5d:%s\n", lineIndex, optionalSpace(line))
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := p.parseLine(fields, line, lineIndex); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cnf: reading input: %w", err)
	}

	if p.problemLineIndex == noProblemLine {
		return nil, newParseError(ErrMalformedProblemLine, lineIndex, "", "no problem line before end of file")
	}

	p.finalize()

	if p.cfg.VerboseCNF >= config.VerboseParsedInput {
		p.writeParsedSummary()
	}

	return p.cnf, nil
}

func optionalSpace(line string) string {
	if line == "" {
		return ""
	}
	return " " + line
}

func (p *parser) parseLine(fields []string, line string, lineIndex int) error {
	first := fields[0]

	switch {
	case first == "p":
		return p.parseProblemLine(fields, line, lineIndex)
	case first == "*" && len(fields) > 1 && fields[1] == "#variable=":
		return p.parseWBOHeader(fields, line, lineIndex)
	case first == "s" || first == "INDETERMINATE":
		return newParseError(ErrUnexpectedPreprocessorOutput, lineIndex, line, "unexpected output from preprocessor pmc")
	case isWeightLine(fields):
		return p.parseWeightLine(fields, line, lineIndex)
	case isShowLine(fields):
		return p.parseShowLine(fields, line, lineIndex)
	case strings.HasPrefix(first, "c") || first == "*" || strings.HasPrefix(first, "soft"):
		return nil // comment, ignored
	default:
		return p.parseClauseLine(fields, line, lineIndex)
	}
}

// isWeightLine reports whether fields is either "w <lit> <wt> [0]" or the
// positional form "<n> p weight <lit> <wt> [0]" (n unused), per
// spec.md §4.5/§6. The positional guard mirrors the original's
// words.size() > 4 check exactly: anything shorter cannot carry both a
// literal at index 3 and a weight at index 4.
func isWeightLine(fields []string) bool {
	if fields[0] == "w" {
		return true
	}
	return len(fields) > 4 && fields[1] == "p" && fields[2] == "weight"
}

// isShowLine reports whether fields is "vp <vars>*", "vm <vars>*", or the
// positional form "<n> p show <vars>*".
func isShowLine(fields []string) bool {
	if fields[0] == "vp" || fields[0] == "vm" {
		return true
	}
	return len(fields) > 3 && fields[1] == "p" && fields[2] == "show"
}

func (p *parser) parseProblemLine(fields []string, line string, lineIndex int) error {
	if p.problemLineIndex != noProblemLine {
		return newParseError(ErrDuplicateProblemLine, lineIndex, line,
			fmt.Sprintf("multiple problem lines: %d and %d", p.problemLineIndex, lineIndex))
	}
	if len(fields) < 4 {
		return newParseError(ErrMalformedProblemLine, lineIndex, line,
			fmt.Sprintf("problem line has %d words (should be at least 4)", len(fields)))
	}
	p.problemLineIndex = lineIndex

	declaredVarCount, err := strconv.Atoi(fields[2])
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "var count is not an int")
	}
	declaredClauseCount, err := strconv.Atoi(fields[3])
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "clause count is not an int")
	}
	p.cnf.DeclaredVarCount = declaredVarCount
	p.cnf.DeclaredClauseCount = declaredClauseCount

	p.hwcnfFlag = fields[1] == "hwcnf"
	p.wcnfFlag = fields[1] == "wcnf" || p.hwcnfFlag

	if p.wcnfFlag && len(fields) >= 5 {
		bound, err := strconv.Atoi(fields[4])
		if err != nil {
			return newParseError(ErrMalformedProblemLine, lineIndex, line, "trivial bound is not an int")
		}
		p.cnf.TrivialBoundPartialMaxSAT = bound
	}
	return nil
}

func (p *parser) parseWBOHeader(fields []string, line string, lineIndex int) error {
	if p.problemLineIndex != noProblemLine {
		return newParseError(ErrDuplicateProblemLine, lineIndex, line,
			fmt.Sprintf("multiple problem lines: %d and %d", p.problemLineIndex, lineIndex))
	}
	if len(fields) < 5 {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "WBO header too short")
	}
	declaredVarCount, err := strconv.Atoi(fields[2])
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "var count is not an int")
	}
	declaredClauseCount, err := strconv.Atoi(fields[4])
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "clause count is not an int")
	}
	const trivialBoundIndex = 12
	if len(fields) <= trivialBoundIndex {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "WBO header missing trivial bound token")
	}
	if p.cfg.StrictWBOHeader {
		if trivialBoundIndex < 1 || !strings.HasSuffix(fields[trivialBoundIndex-1], "=") {
			return newParseError(ErrMalformedProblemLine, lineIndex, line,
				"strict WBO header requires a key= label before the trivial bound")
		}
	}
	bound, err := strconv.Atoi(fields[trivialBoundIndex])
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "trivial bound is not an int")
	}

	p.cnf.DeclaredVarCount = declaredVarCount
	p.cnf.DeclaredClauseCount = declaredClauseCount
	p.cnf.TrivialBoundPartialMaxSAT = bound
	p.problemLineIndex = lineIndex
	return nil
}

func (p *parser) parseWeightLine(fields []string, line string, lineIndex int) error {
	if !p.cfg.WeightedCounting {
		return nil
	}
	if p.problemLineIndex == noProblemLine {
		return newParseError(ErrWeightWithoutProblem, lineIndex, line, "no problem line before weighted literal")
	}
	litIdx, wtIdx := 1, 2
	if fields[0] != "w" {
		litIdx, wtIdx = 3, 4
	}
	literal, err := strconv.Atoi(fields[litIdx])
	if err != nil {
		return newParseError(ErrLiteralOutOfRange, lineIndex, line, "literal is not an int")
	}
	if abs(literal) > p.cnf.DeclaredVarCount {
		return newParseError(ErrLiteralOutOfRange, lineIndex, line,
			fmt.Sprintf("literal %d inconsistent with declared var count %d", literal, p.cnf.DeclaredVarCount))
	}
	weight, err := number.New(p.cfg, fields[wtIdx])
	if err != nil {
		return newParseError(ErrNegativeWeight, lineIndex, line, err.Error())
	}
	if weight.Less(number.Zero(p.cfg)) {
		return newParseError(ErrNegativeWeight, lineIndex, line, "weight must be non-negative")
	}
	p.cnf.LiteralWeights[literal] = weight
	return nil
}

func (p *parser) parseShowLine(fields []string, line string, lineIndex int) error {
	if !p.cfg.ProjectedCounting && !p.cfg.MaxsatSolving {
		return nil
	}
	if p.problemLineIndex == noProblemLine {
		return newParseError(ErrShowWithoutProblem, lineIndex, line, "no problem line before projected var")
	}
	start := 1
	isMin := fields[0] == "vm"
	if fields[0] != "vp" && fields[0] != "vm" {
		start = 3
	}
	for i := start; i < len(fields); i++ {
		num, err := strconv.Atoi(fields[i])
		if err != nil {
			return newParseError(ErrLiteralOutOfRange, lineIndex, line, "show-line entry is not an int")
		}
		if num == 0 {
			if i != len(fields)-1 {
				return newParseError(ErrPrematureZero, lineIndex, line, "additive vars terminated prematurely by '0'")
			}
			continue
		}
		if num < 0 || num > p.cnf.DeclaredVarCount {
			return newParseError(ErrLiteralOutOfRange, lineIndex, line,
				fmt.Sprintf("var %d inconsistent with declared var count %d", num, p.cnf.DeclaredVarCount))
		}
		p.cnf.AdditiveVars.Add(num)
	}
	if isMin {
		p.cnf.MinMaxsatSolving = p.cfg.MaxsatSolving
	}
	return nil
}

func (p *parser) parseClauseLine(fields []string, line string, lineIndex int) error {
	if p.problemLineIndex == noProblemLine {
		return newParseError(ErrClauseWithoutProblem, lineIndex, line, "no problem line before clause")
	}
	if p.hwcnfFlag {
		return p.parseHybridClauseLine(fields, line, lineIndex)
	}
	return p.parseClassicClauseLine(fields, line, lineIndex)
}

// parseHybridClauseLine parses a clause line in an hwcnf file, where every
// line carries an explicit bracketed weight token first: "[wt] ...".
func (p *parser) parseHybridClauseLine(fields []string, line string, lineIndex int) error {
	weight, err := parseBracketedWeight(fields[0])
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, err.Error())
	}
	rest := fields[1:]
	if len(rest) >= 2 && strings.HasPrefix(rest[1], "x") {
		return p.parsePBClause(rest, line, lineIndex, weight, true)
	}
	return p.parseCNFOrXORClause(rest, line, lineIndex, weight, false)
}

// parseClassicClauseLine parses a clause line in a cnf/wcnf file, which may
// still encode a PB constraint ("[wt] ..." or "... x<var> ... >= k 0") or a
// plain CNF/XOR clause with an optional wcnf leading weight.
func (p *parser) parseClassicClauseLine(fields []string, line string, lineIndex int) error {
	isPB := strings.HasPrefix(fields[0], "[") || (len(fields) > 1 && strings.HasPrefix(fields[1], "x"))
	if isPB {
		weight := float64(p.cnf.TrivialBoundPartialMaxSAT + 1)
		rest := fields
		if strings.HasPrefix(fields[0], "[") {
			var err error
			weight, err = parseBracketedWeight(fields[0])
			if err != nil {
				return newParseError(ErrMalformedProblemLine, lineIndex, line, err.Error())
			}
			rest = fields[1:]
		}
		return p.parsePBClause(rest, line, lineIndex, weight, false)
	}
	return p.parseCNFOrXORClause(fields, line, lineIndex, 1, p.wcnfFlag)
}

func parseBracketedWeight(token string) (float64, error) {
	if len(token) < 2 || token[0] != '[' || token[len(token)-1] != ']' {
		return 0, fmt.Errorf("expected a bracketed weight, got %q", token)
	}
	w, err := strconv.ParseFloat(token[1:len(token)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight %q: %v", token, err)
	}
	return w, nil
}

// parseCNFOrXORClause parses a clause of literals terminated by 0, handling
// a bare "x" marker anywhere in the list (XOR constraint) and, when
// consumeWcnfWeight is set, a leading weight token (at index 0 for a CNF
// clause, index 1 if it follows the "x" marker).
func (p *parser) parseCNFOrXORClause(fields []string, line string, lineIndex int, weight float64, consumeWcnfWeight bool) error {
	typ := TypeCNF
	var clause Clause
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		if tok == "x" {
			typ = TypeXOR
			continue
		}
		if consumeWcnfWeight && ((typ == TypeCNF && i == 0) || (typ == TypeXOR && i == 1)) {
			w, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return newParseError(ErrMalformedProblemLine, lineIndex, line, "invalid wcnf weight")
			}
			weight = w
			continue
		}
		num, err := strconv.Atoi(tok)
		if err != nil {
			return newParseError(ErrLiteralOutOfRange, lineIndex, line, "literal is not an int")
		}
		if num > p.cnf.DeclaredVarCount || num < -p.cnf.DeclaredVarCount {
			return newParseError(ErrLiteralOutOfRange, lineIndex, line,
				fmt.Sprintf("literal %d inconsistent with declared var count %d", num, p.cnf.DeclaredVarCount))
		}
		if num == 0 {
			if i != len(fields)-1 {
				return newParseError(ErrPrematureZero, lineIndex, line, "clause terminated prematurely by '0'")
			}
			if len(clause) == 0 {
				p.warn(lineIndex, line)
				return nil
			}
			p.cnf.addClause(clause, typ, weight, ComparatorNone, nil, 0)
			p.cnf.ProcessedClauseCount++
			return nil
		}
		if i == len(fields)-1 {
			return newParseError(ErrMissingZero, lineIndex, line, "missing end-of-clause indicator '0'")
		}
		clause = append(clause, num)
	}
	return newParseError(ErrMissingZero, lineIndex, line, "missing end-of-clause indicator '0'")
}

// parsePBClause parses the body of a pseudo-boolean constraint: alternating
// "coef x<var>" pairs, a comparator, a right-hand side, and a terminator,
// then canonicalises it per spec.md §4.5.
func (p *parser) parsePBClause(fields []string, line string, lineIndex int, weight float64, hybrid bool) error {
	_ = hybrid
	if len(fields) < 3 {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "PB clause too short")
	}
	comparatorTok := fields[len(fields)-3]
	kTok := fields[len(fields)-2]
	termTok := fields[len(fields)-1]
	if termTok != "0" {
		return newParseError(ErrMissingZero, lineIndex, line, "missing end-of-clause indicator '0'")
	}

	var comparator int
	switch comparatorTok {
	case ">=":
		comparator = ComparatorGtEq
	case "=":
		comparator = ComparatorEq
	case "<=":
		comparator = comparatorLtEq
	default:
		return newParseError(ErrMalformedProblemLine, lineIndex, line,
			fmt.Sprintf("unknown PB comparator %q", comparatorTok))
	}
	k, err := strconv.Atoi(kTok)
	if err != nil {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "PB right-hand side is not an int")
	}

	terms := fields[:len(fields)-3]
	if len(terms)%2 != 0 {
		return newParseError(ErrMalformedProblemLine, lineIndex, line, "PB clause has an unmatched coefficient/variable")
	}
	coefs := make(map[int]int, len(terms)/2)
	vars := make([]int, 0, len(terms)/2)
	for i := 0; i < len(terms); i += 2 {
		coef, err := strconv.Atoi(terms[i])
		if err != nil {
			return newParseError(ErrMalformedProblemLine, lineIndex, line, "PB coefficient is not an int")
		}
		varTok := terms[i+1]
		if !strings.HasPrefix(varTok, "x") {
			return newParseError(ErrMalformedProblemLine, lineIndex, line, fmt.Sprintf("expected a PB variable token, got %q", varTok))
		}
		v, err := strconv.Atoi(varTok[1:])
		if err != nil {
			return newParseError(ErrMalformedProblemLine, lineIndex, line, "PB variable is not an int")
		}
		vars = append(vars, v)
		coefs[v] = coef
	}

	canonVars := canonicalizePB(vars, coefs, &k, &comparator)

	clause := make(Clause, len(canonVars))
	copy(clause, canonVars)
	p.cnf.addClause(clause, TypePB, weight, comparator, coefs, k)
	p.cnf.ProcessedClauseCount++
	return nil
}

// canonicalizePB rewrites coefs and k in place and returns the (possibly
// complemented) variable list, so that afterwards every coefficient is
// positive and comparator is ComparatorGtEq or ComparatorEq. Grounded on
// PB_canonicalize in original_source/addmc/src/logic.cc: a "<=" constraint
// is first flipped to ">=" by negating every coefficient and k, then any
// remaining negative coefficient is eliminated by substituting its variable
// for its complement and folding the coefficient into k — the same
// classical move as crillab/gophersat's solver.GtEq/LtEq helpers.
func canonicalizePB(vars []int, coefs map[int]int, k *int, comparator *int) []int {
	if *comparator == comparatorLtEq {
		*comparator = ComparatorGtEq
		*k = -*k
		for _, v := range vars {
			coefs[v] = -coefs[v]
		}
	}
	out := make([]int, 0, len(vars))
	for _, v := range vars {
		c := coefs[v]
		if c < 0 {
			*k -= c
			coefs[-v] = -c
			delete(coefs, v)
			out = append(out, -v)
		} else {
			out = append(out, v)
		}
	}
	return out
}

// finalize enforces invariants 3-6 of spec.md §3 once the file has been
// fully read.
func (p *parser) finalize() {
	c := p.cnf
	c.setApparentVars()

	if !p.cfg.ProjectedCounting && !p.cfg.MaxsatSolving {
		for v := 1; v <= c.DeclaredVarCount; v++ {
			c.AdditiveVars.Add(v)
		}
	}

	one := number.One(p.cfg)
	if !p.cfg.WeightedCounting {
		for v := 1; v <= c.DeclaredVarCount; v++ {
			c.LiteralWeights[v] = one
			c.LiteralWeights[-v] = one
		}
		return
	}
	for v := 1; v <= c.DeclaredVarCount; v++ {
		_, hasPos := c.LiteralWeights[v]
		_, hasNeg := c.LiteralWeights[-v]
		switch {
		case !hasPos && !hasNeg:
			c.LiteralWeights[v] = one
			c.LiteralWeights[-v] = one
		case !hasPos:
			c.LiteralWeights[v] = one.Sub(c.LiteralWeights[-v])
		case !hasNeg:
			c.LiteralWeights[-v] = one.Sub(c.LiteralWeights[v])
		}
	}
}

func (p *parser) writeParsedSummary() {
	c := p.cnf
	w := p.cfg.Output
	fmt.Fprintf(w, "c declaredVarCount %d\n", c.DeclaredVarCount)
	fmt.Fprintf(w, "c apparentVarCount %d\n", c.ApparentVars.Len())
	fmt.Fprintf(w, "c declaredClauseCount %d\n", c.DeclaredClauseCount)
	fmt.Fprintf(w, "c apparentClauseCount %d\n", c.ProcessedClauseCount)
	if p.cfg.ProjectedCounting {
		fmt.Fprintf(w, "c additive vars: { ")
		for _, v := range c.AdditiveVars.Sorted() {
			fmt.Fprintf(w, "%d ", v)
		}
		fmt.Fprintf(w, "}\n")
	}
	if p.cfg.WeightedCounting {
		c.WriteLiteralWeights(w)
	}
	c.WriteClauses(w)
}
