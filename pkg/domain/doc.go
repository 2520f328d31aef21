// Package domain holds the types shared by the classifier service, its
// adapters and its APIs: prediction inputs and outputs, the tabular frame
// handed to a model, and prediction events.
package domain
