package textclass

import "math"

// Classifier is a binary text classifier over TF-IDF features trained with
// perceptron-style updates and a sigmoid output.
type Classifier struct {
	vectorizer *Vectorizer
	weights    []float64
	bias       float64
}

// NewClassifier returns an untrained classifier with a vocabulary bounded to
// maxFeatures terms.
func NewClassifier(maxFeatures int) *Classifier {
	return &Classifier{vectorizer: NewVectorizer(maxFeatures)}
}

// Train fits the vectorizer on the corpus and learns weights from the
// labeled documents. Labels are 0 or 1.
func (c *Classifier) Train(documents []string, labels []float64, learningRate float64, epochs int) {
	c.vectorizer.Fit(documents)
	c.weights = make([]float64, c.vectorizer.VocabularySize())
	c.bias = 0

	for epoch := 0; epoch < epochs; epoch++ {
		for i, doc := range documents {
			features := c.vectorizer.Transform(doc)
			errTerm := labels[i] - c.predictFeatures(features)

			for j := range c.weights {
				c.weights[j] += learningRate * errTerm * features[j]
			}
			c.bias += learningRate * errTerm
		}
	}
}

// Predict scores a document; results close to 1 indicate the positive
// class.
func (c *Classifier) Predict(document string) float64 {
	return c.predictFeatures(c.vectorizer.Transform(document))
}

func (c *Classifier) predictFeatures(features []float64) float64 {
	score := c.bias
	for i, w := range c.weights {
		score += w * features[i]
	}
	return 1 / (1 + math.Exp(-score))
}
