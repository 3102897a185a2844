package source

// DefaultQuery fetches everything a dashboard needs for one customer.
// Fields are aliased to the snake_case keys of schema.Dataset so that
// custom query files only need to keep the same aliases.
const DefaultQuery = `query CustomerDataset($customer: String!) {
  customer(slug: $customer) {
    customer: slug
    contract {
      start_date: startDate
      end_date: endDate
      total_hours: totalHours
      initial_scope: initialScope
    }
    demands {
      id
      created_date: createdDate
      commitment_date: commitmentDate
      end_date: endDate
      discarded_at: discardedAt
    }
    demand_efforts: demandEfforts {
      effort_value: effortValue
      start_time_to_computation: startTimeToComputation
    }
    additional_hours: additionalHours {
      hours
      event_date: eventDate
    }
  }
}
`
