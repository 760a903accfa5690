package rubric

// defaultRubricYAML is written verbatim when an assignment has no rubric
// file. It covers the standard three-part homework layout and is meant to be
// edited by the instructor afterwards.
const defaultRubricYAML = `part_1:
  total_points: 30
  problem_statement: From Exploration to Engineering
  expected_response_type: mixed
  context: Student should demonstrate understanding of IDA, EDA, and feature engineering
  criteria:
    insight_quality:
      points: 15
      description: Quality and depth of insights from IDA/EDA
      guidelines: Look for specific observations about data patterns, identification of problems, and proposed solutions
    code_quality:
      points: 10
      description: Quality of code implementation
      guidelines: Clean, well-commented code that runs without errors
    visualization:
      points: 5
      description: Quality and appropriateness of visualizations
      guidelines: Clear, properly labeled plots that support the analysis
part_2:
  total_points: 30
  problem_statement: Train-Test Splits
  expected_response_type: mixed
  criteria:
    conceptual_understanding:
      points: 15
      description: Understanding of why train-test splits are needed
      guidelines: Clear explanation of overfitting, generalization, and validation concepts
    implementation:
      points: 10
      description: Correct implementation using sklearn
      guidelines: Proper use of train_test_split, appropriate analysis of results
    analysis:
      points: 5
      description: Analysis of split properties and stratification
      guidelines: Understanding of stratified splits and their importance
part_3:
  total_points: 40
  problem_statement: Scikit-Learn API
  expected_response_type: mixed
  criteria:
    api_understanding:
      points: 20
      description: Understanding of sklearn API concepts
      guidelines: Clear definitions of estimator, transformer, predictor and their methods
    implementation:
      points: 10
      description: Correct implementation of LinearRegression example
      guidelines: Working code with proper fit, predict, and visualization
    pipeline_understanding:
      points: 10
      description: Understanding of ML pipelines
      guidelines: Clear explanation of pipeline benefits and setup
`
