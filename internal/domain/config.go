package domain

// KeyPrefix namespaces all quizdex keys in the shared Redis instance.
const KeyPrefix = "quizdex:"
