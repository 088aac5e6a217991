package polyfit

// MaxDegree bounds the fit degree. Reduction only ever asks for 0, 1 or 3;
// higher degrees are accepted for experimentation but the Vandermonde
// system degrades quickly past this point.
const MaxDegree = 8
