package ml

import "fmt"

// LoadModel deserializes the classifier artifact at path. The model type
// comes from configuration, not from the artifact itself.
func LoadModel(modelType, path string) (Classifier, error) {
	switch modelType {
	case "decision_tree":
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	case "random_forest":
		model := &RandomForest{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}
