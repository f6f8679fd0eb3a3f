package pipeline

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"specsheet/internal"
	"specsheet/internal/corpus"
)

// Extract runs the full heuristic pass over one corpus: product-type
// detection, the type's field routines, model-code extraction and
// confidence scoring.
func (e *Extractor) Extract(c *corpus.PageCorpus, filename string) internal.DocumentResult {
	productType := DetectProductType(c.Text, filename)

	var fields internal.FieldRecord
	switch productType {
	case internal.TypePaddleJoystick:
		fields = e.extractPaddleJoystick(c, filename)
	case internal.TypeThumbstickJoystick:
		fields = e.extractThumbstick(c, filename)
	case internal.TypeFingertipJoystick:
		fields = e.extractFingertipJoystick(c, filename)
	case internal.TypeTerminalBlock:
		fields = e.extractTerminalBlock(c, filename)
	default:
		fields = e.extractLEDIndicator(c, filename)
	}

	series := fields["SERIES"]
	validation := e.AnalyzeConfidence(fields, c.Pages)
	score, level := e.OverallConfidence(validation)

	return internal.DocumentResult{
		Filename:        filepath.Base(filename),
		Series:          series,
		ProductType:     productType,
		Fields:          fields,
		ModelCodes:      ExtractModelCodes(c, series),
		Validation:      validation,
		ConfidenceScore: score,
		ConfidenceLevel: level,
	}
}

// ExtractFile reads and extracts one datasheet. A document-level failure
// (unreadable file, corrupt PDF) is converted into a degraded all-defaults
// result; the DocumentError carries the cause for logging and never aborts
// a batch.
func (e *Extractor) ExtractFile(path string) (internal.DocumentResult, *internal.DocumentError) {
	filename := filepath.Base(path)

	content, err := os.ReadFile(path)
	if err != nil {
		return e.degraded(filename), &internal.DocumentError{Filename: filename, Cause: err}
	}

	c, err := corpus.FromBytes(content, filename)
	if err != nil {
		return e.degraded(filename), &internal.DocumentError{Filename: filename, Cause: err}
	}

	return e.Extract(c, filename), nil
}

func (e *Extractor) degraded(filename string) internal.DocumentResult {
	productType := DetectProductType("", filename)
	fields := newRecord(productType, filename)
	validation := e.AnalyzeConfidence(fields, nil)
	score, level := e.OverallConfidence(validation)

	return internal.DocumentResult{
		Filename:        filename,
		Series:          fields["SERIES"],
		ProductType:     productType,
		Fields:          fields,
		Validation:      validation,
		ConfidenceScore: score,
		ConfidenceLevel: level,
	}
}

// newRecord builds the all-defaults record for a schema: every column
// present, SERIES from the filename, the rest "N/A".
func newRecord(productType internal.ProductType, filename string) internal.FieldRecord {
	fields := internal.FieldRecord{}
	for _, col := range Schemas[productType] {
		fields[col] = notFound
	}
	fields["SERIES"] = SeriesFromFilename(filename)
	return fields
}

// ---------------------------------------------------------------------------
// LED indicator (the general schema)

func (e *Extractor) extractLEDIndicator(c *corpus.PageCorpus, filename string) internal.FieldRecord {
	fields := newRecord(internal.TypeLEDIndicator, filename)

	fields["MOUNTING HOLE"] = e.extractMountingHole(c)
	fields["VOLTAGE"] = e.extractVoltage(c)
	fields["SEALING"] = e.extractSealing(c)
	fields["LED COLOR"] = e.extractLEDColor(c)
	fields["TYPE OF ILLUMINATION"] = e.extractVocabField(c, illuminationTypes, nil)
	fields["BEZEL STYLE"] = e.extractVocabField(c, bezelStyles, nil)
	fields["TERMINALS"] = e.extractVocabField(c, terminalTypes, normalizeTerminal)
	fields["BEZEL FINISH"] = e.extractVocabField(c, bezelFinishes, nil)

	return fields
}

// ---------------------------------------------------------------------------
// Option tables for the joystick and terminal-block schemas. Each entry
// pairs a detection pattern with the canonical option label emitted when
// the pattern occurs in the document text.

type patternLabel struct {
	re    *regexp.Regexp
	label string
}

func pl(pattern, label string) patternLabel {
	return patternLabel{re: regexp.MustCompile(`(?i)` + pattern), label: label}
}

func matchLabels(text string, options []patternLabel) []string {
	var out []string
	for _, opt := range options {
		if opt.re.MatchString(text) {
			out = append(out, opt.label)
		}
	}
	return out
}

func braceJoin(items []string) string {
	if len(items) == 0 {
		return notFound
	}
	return "{" + strings.Join(items, "|") + "}"
}

// ---------------------------------------------------------------------------
// Paddle joystick

var paddleConfigurations = []patternLabel{
	pl(`1[:\s]*Standard\s*Dual\s*Outputs?`, "1: Standard Dual Outputs"),
	pl(`2[:\s]*Inverse\s*Dual\s*Outputs?`, "2: Inverse Dual Outputs"),
	pl(`3[:\s]*PWM`, "3: PWM"),
}

var paddleLeverOperations = []patternLabel{
	pl(`D0?1[:\s]*Centre\s*Detent`, "D01: Centre Detent"),
	pl(`D0?2[:\s]*15°?\s*Detents?`, "D02: 15° Detents"),
	pl(`D0?3[:\s]*15°?\s*&\s*30°?\s*Detents?`, "D03: 15° & 30° Detents"),
	pl(`D0?4[:\s]*30°?\s*Detents?`, "D04: 30° Detents"),
	pl(`SD1[:\s]*Sprung\s*to\s*Centre`, "SD1: Sprung to Centre with D1"),
	pl(`SD2[:\s]*Sprung\s*to\s*Centre`, "SD2: Sprung to Centre with D2"),
	pl(`SD3[:\s]*Sprung\s*to\s*Centre`, "SD3: Sprung to Centre with D3"),
	pl(`SD4[:\s]*Sprung\s*to\s*Centre`, "SD4: Sprung to Centre with D4"),
}

var paddleDetailColors = []patternLabel{
	pl(`BK[:\s]*Black`, "BK: Black"),
	pl(`RE[:\s]*Red`, "RE: Red"),
	pl(`BL[:\s]*Blue`, "BL: Blue"),
	pl(`YE[:\s]*Yellow`, "YE: Yellow"),
	pl(`GR[:\s]*Green`, "GR: Green"),
}

var paddleSwitchingPoints = []patternLabel{
	pl(`00[:\s]*No\s*Switch`, "00: No Switches"),
	pl(`05[:\s]*[±]?5\s*Degrees?`, "05: ±5 Degrees"),
	pl(`15[:\s]*[±]?15\s*Degrees?`, "15: ±15 Degrees"),
	pl(`30[:\s]*[±]?30\s*Degrees?`, "30: ±30 Degrees"),
}

var (
	rePaddleGain   = regexp.MustCompile(`(\d+)[:\s]*[±]?(\d+)%\s*[xX×]?\s*V`)
	rePaddleHandle = regexp.MustCompile(`(?i)handle.*black|black.*handle`)
)

func (e *Extractor) extractPaddleJoystick(c *corpus.PageCorpus, filename string) internal.FieldRecord {
	fields := newRecord(internal.TypePaddleJoystick, filename)

	if configs := matchLabels(c.Text, paddleConfigurations); len(configs) > 0 {
		fields["CONFIGURATION"] = braceJoin(configs)
	}

	if gains := rePaddleGain.FindAllStringSubmatch(c.Text, -1); len(gains) > 0 {
		var labels []string
		seen := map[string]bool{}
		for _, g := range gains {
			label := g[1] + ": ±" + g[2] + "%xV"
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
		fields["GAIN"] = braceJoin(labels)
	}

	if ops := matchLabels(c.Text, paddleLeverOperations); len(ops) > 0 {
		fields["LEVER OPERATION"] = braceJoin(ops)
	}
	if colors := matchLabels(c.Text, paddleDetailColors); len(colors) > 0 {
		fields["DETAIL COLOR"] = braceJoin(colors)
	}
	if rePaddleHandle.MatchString(c.Text) {
		fields["HANDLE"] = "{BK: Black}"
	}
	if points := matchLabels(c.Text, paddleSwitchingPoints); len(points) > 0 {
		fields["SWITCHING POINTS"] = braceJoin(points)
	}
	fields["MODIFIER"] = "{00: None}"

	return fields
}

// ---------------------------------------------------------------------------
// Thumbstick joystick

var thumbstickLowerButtons = []patternLabel{
	pl(`N[:\s]*None`, "N: None"),
	pl(`A[:\s]*One\s*switch\s*in\s*position\s*A`, "A: One switch in position A"),
	pl(`B[:\s]*One\s*switch\s*in\s*position\s*B`, "B: One switch in position B"),
	pl(`C[:\s]*One\s*switch\s*in\s*center`, "C: One switch in center"),
	pl(`W[:\s]*Two\s*switches`, "W: Two switches"),
	pl(`X[:\s]*Custom`, "X: Custom"),
}

var thumbstickUpperButtons = []patternLabel{
	pl(`0[:\s]*None`, "0: None"),
	pl(`1[:\s]*One\b`, "1: One"),
	pl(`2[:\s]*Two\b`, "2: Two"),
	pl(`3[:\s]*Three`, "3: Three"),
	pl(`4[:\s]*Four`, "4: Four"),
	pl(`5[:\s]*Five`, "5: Five"),
	pl(`6[:\s]*Six`, "6: Six"),
}

var thumbstickLimiterPlates = []patternLabel{
	pl(`S[:\s]*Square`, "S: Square"),
	pl(`R[:\s]*Round`, "R: Round"),
	pl(`X[:\s]*Slotted\s*horizontal`, "X: Slotted horizontal"),
	pl(`Y[:\s]*Slotted\s*vertical`, "Y: Slotted vertical"),
	pl(`P[:\s]*Plus`, "P: Plus"),
	pl(`D[:\s]*Diamond`, "D: Diamond"),
	pl(`G[:\s]*Guided\s*feel\s*square`, "G: Guided feel square"),
	pl(`H[:\s]*Guided\s*feel\s*round`, "H: Guided feel round"),
}

var thumbstickOutputs = []patternLabel{
	pl(`00[:\s]*0V\s*to\s*5V\b`, "00: 0V to 5V"),
	pl(`01[:\s]*0\.5V\s*to\s*4\.5V`, "01: 0.5V to 4.5V"),
	pl(`02[:\s]*0\.25V\s*to\s*4\.75V`, "02: 0.25V to 4.75V"),
	pl(`03[:\s]*1V\s*to\s*4V`, "03: 1V to 4V"),
	pl(`13[:\s]*USB`, "13: USB"),
	pl(`14[:\s]*Cursor`, "14: Cursor emulation"),
	pl(`15[:\s]*CAN\s*bus\s*J1939`, "15: CAN bus J1939"),
	pl(`16[:\s]*CANopen`, "16: CANopen"),
}

var thumbstickAdditionalOptions = []patternLabel{
	pl(`N[:\s]*None`, "N: None"),
	pl(`V[:\s]*Voltage\s*regulator`, "V: Voltage regulator"),
	pl(`E[:\s]*Environmental\s*sealing`, "E: Environmental sealing"),
}

var rePresencePaddle = regexp.MustCompile(`(?i)operator\s*presence\s*paddle`)

func (e *Extractor) extractThumbstick(c *corpus.PageCorpus, filename string) internal.FieldRecord {
	fields := newRecord(internal.TypeThumbstickJoystick, filename)

	if buttons := matchLabels(c.Text, thumbstickLowerButtons); len(buttons) > 0 {
		fields["LOWER FACE BUTTONS"] = braceJoin(buttons)
	}
	if buttons := matchLabels(c.Text, thumbstickUpperButtons); len(buttons) > 0 {
		fields["UPPER FACE BUTTONS"] = braceJoin(buttons)
	}
	if rePresencePaddle.MatchString(c.Text) {
		fields["OPERATOR PRESENCE PADDLE"] = "{N: None|D: Operator presence paddle}"
	}
	if plates := matchLabels(c.Text, thumbstickLimiterPlates); len(plates) > 0 {
		fields["LIMITER PLATE"] = braceJoin(plates)
	}
	fields["SPRING TENSION"] = "{0: Standard}"
	if outputs := matchLabels(c.Text, thumbstickOutputs); len(outputs) > 0 {
		fields["OUTPUT OPTIONS"] = braceJoin(outputs)
	}
	if opts := matchLabels(c.Text, thumbstickAdditionalOptions); len(opts) > 0 {
		fields["ADDITIONAL OPTIONS"] = braceJoin(opts)
	}

	return fields
}

// ---------------------------------------------------------------------------
// Fingertip joystick

var fingertipConfigurations = []patternLabel{
	pl(`1[:\s]*One\s*axis`, "1: One axis"),
	pl(`2[:\s]*Two\s*axis`, "2: Two axis"),
	pl(`5V\s*operation`, "5V operation"),
	pl(`3\.3\s*V`, "3.3V operation"),
}

var reFingertipSealing = regexp.MustCompile(`(?i)IP\d+`)

func (e *Extractor) extractFingertipJoystick(c *corpus.PageCorpus, filename string) internal.FieldRecord {
	fields := newRecord(internal.TypeFingertipJoystick, filename)
	textLower := strings.ToLower(c.Text)

	if configs := matchLabels(c.Text, fingertipConfigurations); len(configs) > 0 {
		fields["CONFIGURATION"] = braceJoin(configs)
	}

	oneAxis := strings.Contains(textLower, "one axis")
	twoAxis := strings.Contains(textLower, "two axis")
	switch {
	case oneAxis && twoAxis:
		fields["AXIS"] = "{1: One axis|2: Two axis}"
	case twoAxis:
		fields["AXIS"] = "{2: Two axis}"
	case oneAxis:
		fields["AXIS"] = "{1: One axis}"
	}

	var outputs []string
	if strings.Contains(textLower, "analog") {
		outputs = append(outputs, "Analog")
	}
	if strings.Contains(textLower, "pwm") {
		outputs = append(outputs, "PWM")
	}
	if len(outputs) > 0 {
		fields["OUTPUT"] = braceJoin(outputs)
	}

	var voltages []string
	if strings.Contains(textLower, "5 v") || strings.Contains(textLower, "5v") {
		voltages = append(voltages, "5V")
	}
	if strings.Contains(textLower, "3.3 v") || strings.Contains(textLower, "3.3v") {
		voltages = append(voltages, "3.3V")
	}
	if len(voltages) > 0 {
		fields["VOLTAGE"] = braceJoin(voltages)
	}

	if sealing := reFingertipSealing.FindString(c.Text); sealing != "" {
		fields["SEALING"] = "{" + strings.ToUpper(sealing) + "}"
	}
	if strings.Contains(textLower, "panel") {
		fields["MOUNTING"] = "{Panel Mount}"
	}

	var options []string
	if strings.Contains(textLower, "pushbutton") {
		options = append(options, "Pushbutton")
	}
	if strings.Contains(textLower, "boot") {
		options = append(options, "Boot")
	}
	if len(options) > 0 {
		fields["OPTIONS"] = braceJoin(options)
	}

	return fields
}

// ---------------------------------------------------------------------------
// Terminal block

var (
	reWireRange    = regexp.MustCompile(`(?i)(\d+)\s*(?:to|~|-)\s*(\d+)\s*AWG`)
	reBlockVoltage = regexp.MustCompile(`(\d+)\s*V(?:AC|DC)?`)
	reBlockCurrent = regexp.MustCompile(`(\d+)\s*A\b`)
)

func (e *Extractor) extractTerminalBlock(c *corpus.PageCorpus, filename string) internal.FieldRecord {
	fields := newRecord(internal.TypeTerminalBlock, filename)
	textLower := strings.ToLower(c.Text)

	var types []string
	if strings.Contains(textLower, "touch-down") || strings.Contains(textLower, "touchdown") {
		types = append(types, "Touch-down")
	}
	if strings.Contains(textLower, "screw") {
		types = append(types, "Screw")
	}
	if strings.Contains(textLower, "stud") {
		types = append(types, "Stud")
	}
	if len(types) > 0 {
		fields["TERMINAL TYPE"] = braceJoin(types)
	}

	if ranges := reWireRange.FindAllStringSubmatch(c.Text, -1); len(ranges) > 0 {
		var labels []string
		seen := map[string]bool{}
		for _, r := range ranges {
			label := r[1] + "-" + r[2] + " AWG"
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
		fields["WIRE RANGE"] = braceJoin(labels)
	}

	var ratings []string
	if m := reBlockVoltage.FindString(c.Text); m != "" {
		ratings = append(ratings, strings.TrimSpace(m))
	}
	if m := reBlockCurrent.FindStringSubmatch(c.Text); m != nil {
		ratings = append(ratings, m[1]+"A")
	}
	if len(ratings) > 0 {
		fields["RATING"] = braceJoin(ratings)
	}

	var mounting []string
	if strings.Contains(textLower, "din rail") {
		mounting = append(mounting, "DIN Rail")
	}
	if strings.Contains(c.Text, "35") && strings.Contains(textLower, "mm") {
		mounting = append(mounting, "35mm DIN Rail")
	}
	if strings.Contains(textLower, "iec") {
		mounting = append(mounting, "IEC Type C Rail")
	}
	if len(mounting) > 0 {
		fields["MOUNTING"] = braceJoin(mounting)
	}

	var certs []string
	if strings.Contains(textLower, "ul") {
		certs = append(certs, "UL")
	}
	if strings.Contains(textLower, "csa") {
		certs = append(certs, "CSA")
	}
	if strings.Contains(textLower, "tüv") || strings.Contains(textLower, "tuv") {
		certs = append(certs, "TÜV")
	}
	if len(certs) > 0 {
		fields["CERTIFICATIONS"] = braceJoin(certs)
	}

	if strings.Contains(textLower, "ul94v-0") || strings.Contains(textLower, "ul 94v-0") {
		fields["MATERIAL"] = "{UL94V-0}"
	}
	if strings.Contains(textLower, "marking strip") {
		fields["MARKING"] = "{Marking strip available}"
	}

	return fields
}
