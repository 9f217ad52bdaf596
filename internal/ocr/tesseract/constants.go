package tesseract

// MinRecognizeHeight is the height small counter crops are upscaled to.
const MinRecognizeHeight = 48

// DefaultLanguage is the traineddata used when none is configured.
const DefaultLanguage = "eng"
