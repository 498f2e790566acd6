package xgboost

import (
	"sort"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// Task is the learning task an objective belongs to.
type Task string

const (
	TaskRegression     Task = "regression"
	TaskClassification Task = "classification"
	TaskRanking        Task = "ranking"
)

var objectiveTasks = map[string]Task{
	"reg:squarederror":      TaskRegression,
	"reg:linear":            TaskRegression,
	"reg:squaredlogerror":   TaskRegression,
	"reg:logistic":          TaskRegression,
	"reg:pseudohubererror":  TaskRegression,
	"reg:absoluteerror":     TaskRegression,
	"reg:quantileerror":     TaskRegression,
	"reg:gamma":             TaskRegression,
	"reg:tweedie":           TaskRegression,
	"count:poisson":         TaskRegression,
	"survival:cox":          TaskRegression,
	"survival:aft":          TaskRegression,
	"aft_loss_distribution": TaskRegression,
	"binary:logistic":       TaskClassification,
	"binary:logitraw":       TaskClassification,
	"binary:hinge":          TaskClassification,
	"multi:softmax":         TaskClassification,
	"multi:softprob":        TaskClassification,
	"rank:pairwise":         TaskRanking,
	"rank:ndcg":             TaskRanking,
	"rank:map":              TaskRanking,
}

// ClassifyObjective maps an objective identifier to its task.
// Unknown identifiers fail with *errors.UnsupportedObjectiveError.
func ClassifyObjective(objective string) (Task, error) {
	task, ok := objectiveTasks[objective]
	if !ok {
		return "", errors.NewUnsupportedObjectiveError(objective)
	}
	return task, nil
}

// SupportedObjectives lists every recognised objective identifier in sorted order.
func SupportedObjectives() []string {
	out := make([]string, 0, len(objectiveTasks))
	for k := range objectiveTasks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
