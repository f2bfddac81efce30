package sentiment

// lexiconEntry scores a single word
type lexiconEntry struct {
	polarity     float64
	subjectivity float64
}

// defaultLexicon is a small polarity lexicon tuned for interview small talk.
// Values follow the usual [-1,1] polarity and [0,1] subjectivity scales.
var defaultLexicon = map[string]lexiconEntry{
	// positive
	"great":       {0.8, 0.75},
	"good":        {0.7, 0.6},
	"nice":        {0.6, 1.0},
	"happy":       {0.8, 1.0},
	"glad":        {0.5, 1.0},
	"pleased":     {0.5, 1.0},
	"excited":     {0.4, 0.75},
	"exciting":    {0.3, 0.8},
	"love":        {0.5, 0.6},
	"awesome":     {1.0, 1.0},
	"perfect":     {1.0, 1.0},
	"excellent":   {1.0, 1.0},
	"wonderful":   {1.0, 1.0},
	"fantastic":   {0.4, 0.9},
	"amazing":     {0.6, 0.9},
	"thanks":      {0.2, 0.2},
	"thank":       {0.2, 0.2},
	"appreciate":  {0.3, 0.4},
	"interesting": {0.5, 0.5},
	"confident":   {0.5, 0.6},
	"enjoy":       {0.4, 0.5},
	"enjoyed":     {0.4, 0.5},
	"fun":         {0.3, 0.2},
	"easy":        {0.43, 0.83},
	"best":        {1.0, 0.3},
	"better":      {0.5, 0.5},
	"fine":        {0.4, 0.5},
	"cool":        {0.35, 0.65},
	"comfortable": {0.4, 0.6},
	"sure":        {0.5, 0.89},
	"ready":       {0.2, 0.5},
	"passionate":  {0.5, 0.9},
	"successful":  {0.75, 0.95},
	"strong":      {0.43, 0.73},

	// negative
	"bad":          {-0.7, 0.67},
	"terrible":     {-1.0, 1.0},
	"awful":        {-1.0, 1.0},
	"horrible":     {-1.0, 1.0},
	"hate":         {-0.8, 0.9},
	"angry":        {-0.5, 1.0},
	"upset":        {-0.6, 0.9},
	"sad":          {-0.5, 1.0},
	"confused":     {-0.4, 0.7},
	"confusing":    {-0.3, 0.7},
	"frustrated":   {-0.7, 0.7},
	"frustrating":  {-0.6, 0.7},
	"disappointed": {-0.75, 0.75},
	"worried":      {-0.4, 0.7},
	"nervous":      {-0.3, 1.0},
	"anxious":      {-0.4, 0.8},
	"difficult":    {-0.5, 1.0},
	"hard":         {-0.29, 0.54},
	"struggle":     {-0.3, 0.5},
	"struggling":   {-0.3, 0.5},
	"problem":      {-0.2, 0.3},
	"issue":        {-0.1, 0.3},
	"wrong":        {-0.5, 0.9},
	"boring":       {-1.0, 1.0},
	"stupid":       {-0.8, 1.0},
	"annoying":     {-0.8, 0.9},
	"stressed":     {-0.5, 0.8},
	"weak":         {-0.38, 0.62},
	"unclear":      {-0.1, 0.4},
	"unsure":       {-0.25, 0.9},
	"uncertain":    {-0.2, 0.7},
	"lost":         {-0.2, 0.5},
	"tired":        {-0.4, 0.7},
	"worse":        {-0.4, 0.6},
	"worst":        {-1.0, 1.0},
}

// intensifiers scale the polarity of the word that follows them
var intensifiers = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"so":         1.3,
	"extremely":  1.5,
	"super":      1.5,
	"incredibly": 1.5,
	"quite":      1.1,
	"too":        1.2,
	"slightly":   0.5,
	"somewhat":   0.7,
	"bit":        0.7,
}

// negations flip and dampen the polarity of words within negationWindow tokens
var negations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"don't":   true,
	"dont":    true,
	"doesn't": true,
	"didn't":  true,
	"isn't":   true,
	"wasn't":  true,
	"can't":   true,
	"cannot":  true,
	"won't":   true,
	"aren't":  true,
	"nothing": true,
}

const (
	negationWindow = 2
	negationFactor = -0.5
)
